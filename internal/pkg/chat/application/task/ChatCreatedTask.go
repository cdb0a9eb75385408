package task

import (
	"context"
	"encoding/json"
	"fmt"

	qport "ucoa-chat/internal/infrastructure/queue/port"
	"ucoa-chat/internal/pkg/chat/application/event"
	"ucoa-chat/internal/platform/logger"

	"github.com/hibiken/asynq"
)

// Notifier reaches the live sessions of users; *realtime.Router satisfies it.
type Notifier interface {
	JoinUsers(chatID string, userIDs []int64) int
	NotifyUsers(userIDs []int64, payload []byte) int
}

// ChatCreatedNotification is what connected participants receive when a chat they belong to appears.
type ChatCreatedNotification struct {
	Type string                 `json:"type"`
	Data event.ChatCreatedEvent `json:"data"`
}

// RegisterChatCreatedTask joins online participants of every committed chat to its room and
// notifies them. Offline participants are skipped; they see the chat on their next read.
func RegisterChatCreatedTask(srv qport.Server, notifier Notifier, log *logger.Logger) {
	srv.Register(event.ChatCreatedTaskType, func(ctx context.Context, t qport.Task) error {
		var evt event.ChatCreatedEvent
		if err := json.Unmarshal(t.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %v: %w", event.ChatCreatedTaskType, err, asynq.SkipRetry)
		}
		delivered := NotifyChatCreated(notifier, evt)
		log.Debug("chat created notification sent", "chat_id", evt.Chat.ID, "event_id", evt.ID, "delivered", delivered)
		return nil
	})
}

// NotifyChatCreated joins the participants' live sessions to the new chat and sends them the
// notification. Redelivery is harmless: joining twice is a no-op.
func NotifyChatCreated(notifier Notifier, evt event.ChatCreatedEvent) int {
	payload, err := json.Marshal(ChatCreatedNotification{Type: event.ChatCreatedType, Data: evt})
	if err != nil {
		return 0
	}
	ids := evt.Chat.ParticipantIDs()
	notifier.JoinUsers(evt.Chat.ID, ids)
	return notifier.NotifyUsers(ids, payload)
}
