package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	qport "ucoa-chat/internal/infrastructure/queue/port"
)

// ChatCreatedTaskType is the queue task consumed by the realtime notifier.
const ChatCreatedTaskType = "chat:created"

// QueueDispatcher hands events to the background queue. The event id doubles as task id and
// completed tasks are retained, so an event redelivered within Retention is not queued twice.
type QueueDispatcher struct {
	Client    qport.Client
	Queue     string
	MaxRetry  int
	Retention time.Duration
}

func NewQueueDispatcher(client qport.Client) *QueueDispatcher {
	return &QueueDispatcher{Client: client, Queue: "chat", MaxRetry: 10, Retention: 24 * time.Hour}
}

func (d *QueueDispatcher) Publish(ctx context.Context, evt ChatCreatedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("event: encode %s: %w", evt.ID, err)
	}
	_, err = d.Client.Enqueue(ctx,
		qport.Task{Type: ChatCreatedTaskType, Payload: payload},
		qport.EnqueueOption{Queue: d.Queue, TaskID: evt.ID, MaxRetry: d.MaxRetry, Retention: d.Retention},
	)
	if errors.Is(err, qport.ErrDuplicateTask) {
		return nil
	}
	return err
}
