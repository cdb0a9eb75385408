//go:generate go run go.uber.org/mock/mockgen -source=event.go -destination=../../mocks/mock_dispatcher.go -package=mocks

// Package event announces committed chats to the rest of the system.
package event

import (
	"context"
	"time"

	chat "ucoa-chat/internal/pkg/chat/application/domain"

	"github.com/google/uuid"
)

// ChatCreatedType is the stable event name used as task type and routing key.
const ChatCreatedType = "chat.created.v1"

// ChatCreatedEvent is emitted once per committed chat, after the transaction.
type ChatCreatedEvent struct {
	ID           string             `json:"id"`
	OccurredAt   time.Time          `json:"occurred_at"`
	Chat         chat.Chat          `json:"chat"`
	Participants []chat.Participant `json:"participants"`
}

func NewChatCreated(c *chat.Chat) ChatCreatedEvent {
	return ChatCreatedEvent{
		ID:           uuid.NewString(),
		OccurredAt:   time.Now().UTC(),
		Chat:         *c,
		Participants: append([]chat.Participant(nil), c.Participants...),
	}
}

// Dispatcher delivers events downstream. Delivery is at-least-once and best-effort:
// the caller only logs a returned error.
type Dispatcher interface {
	Publish(ctx context.Context, evt ChatCreatedEvent) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, evt ChatCreatedEvent) error

func (f DispatcherFunc) Publish(ctx context.Context, evt ChatCreatedEvent) error { return f(ctx, evt) }
