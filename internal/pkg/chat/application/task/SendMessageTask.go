package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	qport "ucoa-chat/internal/infrastructure/queue/port"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/pkg/chat/application/usecase"
	repository "ucoa-chat/internal/pkg/chat/persistence/repository/port"

	"github.com/hibiken/asynq"
)

// SendMessageTaskType is the queue task name for sending a message within the chat domain.
const SendMessageTaskType = "chat:send_message"

// dedupeRetention is how long a client dedupe key keeps rejecting resends after processing.
const dedupeRetention = 24 * time.Hour

// SendMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type SendMessageTaskPayload struct {
	ChatID         string  `json:"chatId"`
	SenderID       int64   `json:"senderId"`
	Body           *string `json:"body"`
	MsgType        int16   `json:"msgType"`
	AttachmentURL  *string `json:"attachmentUrl"`
	AttachmentMeta *string `json:"attachmentMeta"`
	DedupeKey      *string `json:"dedupeKey"`
}

// Broadcaster pushes a payload to everyone joined to a chat; *realtime.Router satisfies it.
type Broadcaster interface {
	Broadcast(chatID string, payload []byte, excludeUserID int64) int
}

// RegisterSendMessageTask binds the task handler to the provided server.
// Persisted messages are broadcast to the chat room when rooms is non-nil.
func RegisterSendMessageTask(srv qport.Server, repo repository.ChatRepository, rooms Broadcaster) {
	uc := usecase.NewSendMessageUseCase(repo)
	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %v: %w", SendMessageTaskType, err, asynq.SkipRetry)
		}

		in := usecase.SendMessageInput{
			ChatID:         p.ChatID,
			SenderID:       p.SenderID,
			Body:           p.Body,
			MsgType:        chat.MessageType(p.MsgType),
			AttachmentURL:  p.AttachmentURL,
			AttachmentMeta: p.AttachmentMeta,
			DedupeKey:      p.DedupeKey,
		}

		// give the store a reasonable time budget per task execution
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		msg, err := uc.Execute(ctx, in)
		if errors.Is(err, chat.ErrNotParticipant) || errors.Is(err, chat.ErrEmptyMessage) || errors.Is(err, chat.ErrInvalidMessage) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}
		if rooms != nil {
			if out, err := json.Marshal(msg); err == nil {
				rooms.Broadcast(msg.ChatID, out, 0)
			}
		}
		return nil
	})
}

// EnqueueSendMessage schedules a message for asynchronous persistence.
func EnqueueSendMessage(ctx context.Context, q qport.Client, p SendMessageTaskPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	op := qport.EnqueueOption{Queue: "chat", MaxRetry: 5}
	if p.DedupeKey != nil && *p.DedupeKey != "" {
		op.TaskID = p.ChatID + ":" + *p.DedupeKey
		op.Retention = dedupeRetention
	}
	return q.Enqueue(ctx, qport.Task{Type: SendMessageTaskType, Payload: data}, op)
}
