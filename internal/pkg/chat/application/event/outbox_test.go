package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	qport "ucoa-chat/internal/infrastructure/queue/port"
	chat "ucoa-chat/internal/pkg/chat/application/domain"
	"ucoa-chat/internal/platform/logger"

	"github.com/stretchr/testify/require"
)

func committedChat(id string) *chat.Chat {
	return &chat.Chat{
		ID:       id,
		Type:     chat.ChatTypeHouse,
		DedupKey: "house:5",
		Participants: []chat.Participant{
			{ChatID: id, UserID: 50, Role: chat.ParticipantRoleOwner, Position: 0},
			{ChatID: id, UserID: 51, Role: chat.ParticipantRoleMember, Position: 1},
		},
	}
}

func Test_Outbox_Fans_Out_To_Every_Sink(t *testing.T) {
	req := require.New(t)
	var first, second atomic.Int32
	failing := DispatcherFunc(func(context.Context, ChatCreatedEvent) error { return errors.New("sink down") })
	outbox := NewOutbox(logger.NewNop(), 8, time.Second,
		DispatcherFunc(func(context.Context, ChatCreatedEvent) error { first.Add(1); return nil }),
		failing,
		DispatcherFunc(func(context.Context, ChatCreatedEvent) error { second.Add(1); return nil }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = outbox.Run(ctx)
	}()

	req.NoError(outbox.Publish(context.Background(), NewChatCreated(committedChat("c1"))))
	req.NoError(outbox.Publish(context.Background(), NewChatCreated(committedChat("c2"))))

	req.Eventually(func() bool { return first.Load() == 2 && second.Load() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func Test_Outbox_Publish_Never_Blocks(t *testing.T) {
	req := require.New(t)
	outbox := NewOutbox(logger.NewNop(), 1, time.Second)

	req.NoError(outbox.Publish(context.Background(), NewChatCreated(committedChat("c1"))))
	req.ErrorIs(outbox.Publish(context.Background(), NewChatCreated(committedChat("c2"))), ErrOutboxFull)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.ErrorIs(outbox.Publish(ctx, NewChatCreated(committedChat("c3"))), context.Canceled)
}

func Test_Outbox_Drains_Buffered_Events_On_Shutdown(t *testing.T) {
	req := require.New(t)
	var mu sync.Mutex
	var seen []string
	outbox := NewOutbox(logger.NewNop(), 4, time.Second, DispatcherFunc(func(_ context.Context, evt ChatCreatedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt.Chat.ID)
		return nil
	}))
	req.NoError(outbox.Publish(context.Background(), NewChatCreated(committedChat("c1"))))
	req.NoError(outbox.Publish(context.Background(), NewChatCreated(committedChat("c2"))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(outbox.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	req.ElementsMatch([]string{"c1", "c2"}, seen)
}

func Test_Outbox_Rejects_Events_After_Run_Returns(t *testing.T) {
	req := require.New(t)
	var delivered atomic.Int32
	outbox := NewOutbox(logger.NewNop(), 4, time.Second, DispatcherFunc(func(context.Context, ChatCreatedEvent) error {
		delivered.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- outbox.Run(ctx) }()
	cancel()
	req.NoError(<-done)

	req.ErrorIs(outbox.Publish(context.Background(), NewChatCreated(committedChat("late"))), ErrOutboxClosed)
	req.Zero(delivered.Load())
}

func Test_NewChatCreated_Copies_Participants(t *testing.T) {
	req := require.New(t)
	c := committedChat("c1")
	evt := NewChatCreated(c)
	req.NotEmpty(evt.ID)
	req.Equal("c1", evt.Chat.ID)
	req.Equal(c.Participants, evt.Participants)

	c.Participants[0].UserID = 999
	req.Equal(int64(50), evt.Participants[0].UserID)
}

type recordingClient struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
	err   error
}

func (c *recordingClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	c.tasks = append(c.tasks, t)
	c.opts = append(c.opts, opts...)
	return "task-1", c.err
}

func (c *recordingClient) Close() error { return nil }

func Test_QueueDispatcher_Uses_Event_ID_As_Task_ID(t *testing.T) {
	req := require.New(t)
	client := &recordingClient{}
	evt := NewChatCreated(committedChat("c1"))

	req.NoError(NewQueueDispatcher(client).Publish(context.Background(), evt))
	req.Len(client.tasks, 1)
	req.Equal(ChatCreatedTaskType, client.tasks[0].Type)
	req.Contains(string(client.tasks[0].Payload), `"id":"c1"`)
	req.Equal(evt.ID, client.opts[0].TaskID)
	req.Equal("chat", client.opts[0].Queue)
	req.Equal(24*time.Hour, client.opts[0].Retention)

	client.err = qport.ErrDuplicateTask
	req.NoError(NewQueueDispatcher(client).Publish(context.Background(), evt))

	client.err = errors.New("redis down")
	req.Error(NewQueueDispatcher(client).Publish(context.Background(), evt))
}
