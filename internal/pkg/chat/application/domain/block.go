package chat

import "time"

// Block records that BlockerID refuses contact from BlockedID.
// Either direction makes the pair ineligible to share a newly created chat.
type Block struct {
	BlockerID int64     `db:"blocker_id"`
	BlockedID int64     `db:"blocked_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Involves reports whether the block is between a and b, in either direction.
func (b Block) Involves(a, other int64) bool {
	return (b.BlockerID == a && b.BlockedID == other) || (b.BlockerID == other && b.BlockedID == a)
}
