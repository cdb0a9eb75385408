// Package rule holds the pure predicates a chat aggregate must satisfy before it is written.
package rule

import (
	"fmt"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	"github.com/samber/lo"
)

// Rule inspects an aggregate and returns the first violation it finds.
type Rule interface {
	Name() string
	Check(a *chat.ChatAggregate) error
}

// Limits caps participant counts per chat type. A type absent from the map has no limit.
type Limits map[chat.ChatType]int

// DefaultLimits is used when configuration does not override a type.
var DefaultLimits = Limits{
	chat.ChatTypeSupport:      10,
	chat.ChatTypeHouse:        200,
	chat.ChatTypeHouseComplex: 2000,
	chat.ChatTypeMarket:       50,
}

// ChatTypeRule rejects types outside the supported set.
type ChatTypeRule struct {
	Supported []chat.ChatType
}

func (ChatTypeRule) Name() string { return "chat_type" }

func (r ChatTypeRule) Check(a *chat.ChatAggregate) error {
	supported := r.Supported
	if supported == nil {
		supported = chat.SupportedChatTypes
	}
	if !lo.Contains(supported, a.Type) {
		return fmt.Errorf("%w: %q", chat.ErrInvalidChatType, a.Type)
	}
	return nil
}

// ParticipantLimitRule rejects aggregates with more participants than their type allows.
type ParticipantLimitRule struct {
	Limits Limits
}

func (ParticipantLimitRule) Name() string { return "participant_limit" }

func (r ParticipantLimitRule) Check(a *chat.ChatAggregate) error {
	limit, ok := r.Limits[a.Type]
	if !ok || limit <= 0 {
		return nil
	}
	if n := len(a.Participants); n > limit {
		return fmt.Errorf("%w: %s chat has %d participants, limit is %d", chat.ErrParticipantLimitExceeded, a.Type, n, limit)
	}
	return nil
}

// ParticipantRoleRule checks per-type role constraints: support and market chats need exactly
// one owner, house chats allow at most one. Unknown roles are always rejected.
type ParticipantRoleRule struct{}

func (ParticipantRoleRule) Name() string { return "participant_role" }

func (ParticipantRoleRule) Check(a *chat.ChatAggregate) error {
	for _, p := range a.Participants {
		if !p.Role.Valid() {
			return fmt.Errorf("%w: user %d has unknown role %q", chat.ErrInvalidParticipantRole, p.UserID, p.Role)
		}
	}

	owners := a.CountRole(chat.ParticipantRoleOwner)
	switch a.Type {
	case chat.ChatTypeSupport, chat.ChatTypeMarket:
		if owners != 1 {
			return fmt.Errorf("%w: %s chat needs exactly one owner, got %d", chat.ErrInvalidParticipantRole, a.Type, owners)
		}
	default:
		if owners > 1 {
			return fmt.Errorf("%w: %s chat allows at most one owner, got %d", chat.ErrInvalidParticipantRole, a.Type, owners)
		}
	}
	return nil
}
