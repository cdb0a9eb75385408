package chat

import (
	"fmt"
	"time"
)

// ChatAggregate is the in-memory candidate chat, built after resolution and before commit.
//
// Invariants held by construction:
//   - participants are non-empty
//   - no user id appears twice
//
// Role and size constraints are left to the rule engine so violations surface in its order.
//
// CreatedAt stays zero until the gateway commits it.
type ChatAggregate struct {
	Type         ChatType
	Title        *string
	Participants []ParticipantDescriptor
	DedupKey     DedupKey
	CreatedAt    time.Time
}

// NewChatAggregate bundles a resolved context with its final participant list.
// titleOverride wins over the resolver title when set.
func NewChatAggregate(resolved ResolvedContext, participants []ParticipantDescriptor, titleOverride *string) (*ChatAggregate, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: %s has no participants", ErrParticipantResolution, resolved.DedupKey)
	}

	seen := make(map[int64]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.UserID]; dup {
			return nil, fmt.Errorf("%w: user %d listed twice", ErrParticipantResolution, p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}

	title := resolved.Title
	if titleOverride != nil {
		title = titleOverride
	}

	return &ChatAggregate{
		Type:         resolved.Type,
		Title:        title,
		Participants: append([]ParticipantDescriptor(nil), participants...),
		DedupKey:     resolved.DedupKey,
	}, nil
}

// CountRole returns how many participants hold role.
func (a *ChatAggregate) CountRole(role ParticipantRole) int {
	n := 0
	for _, p := range a.Participants {
		if p.Role == role {
			n++
		}
	}
	return n
}

// Materialize turns the aggregate into the persisted shape. Gateways call it inside the
// write, so CreatedAt is the commit time.
func (a *ChatAggregate) Materialize(id string, at time.Time) *Chat {
	at = at.UTC()
	a.CreatedAt = at
	c := &Chat{
		ID:           id,
		Type:         a.Type,
		Title:        a.Title,
		DedupKey:     a.DedupKey,
		CreatedAt:    at,
		UpdatedAt:    at,
		Participants: make([]Participant, 0, len(a.Participants)),
	}
	for i, p := range a.Participants {
		c.Participants = append(c.Participants, Participant{
			ChatID:   id,
			UserID:   p.UserID,
			Role:     p.Role,
			Position: i,
		})
	}
	return c
}
