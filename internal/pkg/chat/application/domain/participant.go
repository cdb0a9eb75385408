package chat

// ParticipantRole expresses the role within a chat.
// Stored as text so new roles do not need a schema change.
type ParticipantRole string

const (
	ParticipantRoleOwner  ParticipantRole = "owner"
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleMember ParticipantRole = "member"
)

// Rank orders roles by privilege; unknown roles rank below member.
func (r ParticipantRole) Rank() int {
	switch r {
	case ParticipantRoleOwner:
		return 3
	case ParticipantRoleAdmin:
		return 2
	case ParticipantRoleMember:
		return 1
	default:
		return 0
	}
}

func (r ParticipantRole) Valid() bool { return r.Rank() > 0 }

// Participant captures chat membership.
// Primary key: (ChatID, UserID). Position keeps the resolved ordering stable across reads.
type Participant struct {
	ChatID   string          `db:"chat_id" json:"chat_id,omitempty"`
	UserID   int64           `db:"user_id" json:"user_id"`
	Role     ParticipantRole `db:"role" json:"role"`
	Position int             `db:"position" json:"position"`
}

// ParticipantDescriptor is a not-yet-persisted membership produced by resolvers.
type ParticipantDescriptor struct {
	UserID int64
	Role   ParticipantRole
}
