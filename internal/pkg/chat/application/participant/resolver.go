// Package participant turns a resolved context plus explicit invitees into the final,
// de-duplicated participant list of a chat.
package participant

import (
	"context"
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
	repository "ucoa-chat/internal/repository/port"

	"github.com/samber/lo"
)

// Resolver merges context participants with invitees and checks every user is eligible.
type Resolver struct {
	Users repository.UserRepository
}

func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{Users: users}
}

// Resolve returns participants in canonical order: context participants in resolver order,
// then invitees in request order. A user listed twice keeps its first position and the
// higher-privilege role.
//
// Eligibility is checked against the requesting user's organization; staff accounts are
// exempt from the organization scope. Invitees blocked with the requesting user are rejected.
func (r *Resolver) Resolve(ctx context.Context, resolved chat.ResolvedContext, requestedBy int64, invitees []int64) ([]chat.ParticipantDescriptor, error) {
	candidates := make([]chat.ParticipantDescriptor, 0, len(resolved.Participants)+len(invitees))
	candidates = append(candidates, resolved.Participants...)
	candidates = append(candidates, lo.Map(invitees, func(id int64, _ int) chat.ParticipantDescriptor {
		return chat.ParticipantDescriptor{UserID: id, Role: chat.ParticipantRoleMember}
	})...)

	merged := Merge(candidates)
	if len(merged) == 0 {
		return nil, fmt.Errorf("%w: %s resolved no participants", chat.ErrParticipantResolution, resolved.DedupKey)
	}

	ids := lo.Uniq(append(lo.Map(merged, func(p chat.ParticipantDescriptor, _ int) int64 { return p.UserID }), requestedBy))
	users, err := r.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	requester, ok := users[requestedBy]
	if !ok || !requester.Active {
		return nil, fmt.Errorf("%w: requesting user %d is unknown or inactive", chat.ErrParticipantResolution, requestedBy)
	}

	for _, p := range merged {
		u, ok := users[p.UserID]
		switch {
		case !ok:
			return nil, fmt.Errorf("%w: user %d does not exist", chat.ErrParticipantResolution, p.UserID)
		case !u.Active:
			return nil, fmt.Errorf("%w: user %d is inactive", chat.ErrParticipantResolution, p.UserID)
		case !u.Staff && u.OrganizationID != requester.OrganizationID:
			return nil, fmt.Errorf("%w: user %d is outside organization %d", chat.ErrParticipantResolution, p.UserID, requester.OrganizationID)
		}
	}

	if err := r.checkBlocks(ctx, requestedBy, invitees); err != nil {
		return nil, err
	}
	return merged, nil
}

func (r *Resolver) checkBlocks(ctx context.Context, requestedBy int64, invitees []int64) error {
	others := lo.Without(lo.Uniq(invitees), requestedBy)
	if len(others) == 0 {
		return nil
	}
	blocks, err := r.Users.BlocksAmong(ctx, append(others, requestedBy))
	if err != nil {
		return err
	}
	for _, id := range others {
		if lo.ContainsBy(blocks, func(b chat.Block) bool { return b.Involves(requestedBy, id) }) {
			return fmt.Errorf("%w: user %d is blocked", chat.ErrParticipantResolution, id)
		}
	}
	return nil
}

// Merge de-duplicates by user id, keeping the first position and the highest role.
func Merge(candidates []chat.ParticipantDescriptor) []chat.ParticipantDescriptor {
	index := make(map[int64]int, len(candidates))
	out := make([]chat.ParticipantDescriptor, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID <= 0 {
			continue
		}
		if i, seen := index[c.UserID]; seen {
			if c.Role.Rank() > out[i].Role.Rank() {
				out[i].Role = c.Role
			}
			continue
		}
		index[c.UserID] = len(out)
		out = append(out, c)
	}
	return out
}
