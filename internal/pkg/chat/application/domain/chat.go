package chat

import "time"

// ChatType is the kind of conversation a context produces.
type ChatType string

const (
	ChatTypeSupport      ChatType = "support"
	ChatTypeHouse        ChatType = "house"
	ChatTypeHouseComplex ChatType = "house_complex"
	ChatTypeMarket       ChatType = "market"
)

// SupportedChatTypes is the closed set of types the system can persist.
var SupportedChatTypes = []ChatType{
	ChatTypeSupport,
	ChatTypeHouse,
	ChatTypeHouseComplex,
	ChatTypeMarket,
}

// Chat is the persisted conversation. It is owned by the persistence gateway once committed.
type Chat struct {
	ID           string        `db:"id" json:"id"`
	Type         ChatType      `db:"type" json:"type"`
	Title        *string       `db:"title" json:"title,omitempty"`
	DedupKey     DedupKey      `db:"dedup_key" json:"dedup_key"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
	Participants []Participant `db:"-" json:"participants"`
}

// ParticipantIDs returns user ids in stored order.
func (c *Chat) ParticipantIDs() []int64 {
	if c == nil {
		return nil
	}
	ids := make([]int64, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant tells whether userID is part of this chat.
func (c *Chat) HasParticipant(userID int64) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
