package chat

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotParticipant = errors.New("chat: sender is not a participant in the chat")
	ErrEmptyMessage   = errors.New("chat: empty message (no body or attachment)")
	ErrInvalidMessage = errors.New("chat: chat_id and sender_id are required")
)

// MessageType represents type of message content
// 0=text, 1=image, 2=file, 3=system
type MessageType int16

const (
	MessageTypeText   MessageType = 0
	MessageTypeImage  MessageType = 1
	MessageTypeFile   MessageType = 2
	MessageTypeSystem MessageType = 3
)

// Message is an immutable log entry in a chat
type Message struct {
	ID             string      `db:"id" json:"id"`
	ChatID         string      `db:"chat_id" json:"chat_id"`
	SenderID       int64       `db:"sender_id" json:"sender_id"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	Body           *string     `db:"body" json:"body,omitempty"`
	MsgType        MessageType `db:"msg_type" json:"msg_type"`
	AttachmentURL  *string     `db:"attachment_url" json:"attachment_url,omitempty"`
	AttachmentMeta *string     `db:"attachment_meta" json:"attachment_meta,omitempty"` // JSON string; nil if absent
	DedupeKey      *string     `db:"dedupe_key" json:"dedupe_key,omitempty"`
}

// NewMessage trims the body and rejects messages without content.
// System messages may be empty.
func NewMessage(m Message) (*Message, error) {
	if m.ChatID == "" || m.SenderID <= 0 {
		return nil, ErrInvalidMessage
	}

	if m.Body != nil {
		trimmed := strings.TrimSpace(*m.Body)
		if trimmed == "" {
			m.Body = nil
		} else {
			m.Body = &trimmed
		}
	}

	if m.MsgType != MessageTypeSystem && m.Body == nil && m.AttachmentURL == nil {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}
