package adapter

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"ucoa-chat/internal/infrastructure/queue/port"
)

func Test_toAsynqOptions(t *testing.T) {
	req := require.New(t)

	opts := toAsynqOptions(port.EnqueueOption{Queue: "chat", TaskID: "evt-1", MaxRetry: 10, Retention: time.Hour})
	got := make(map[asynq.OptionType]any, len(opts))
	for _, o := range opts {
		got[o.Type()] = o.Value()
	}
	req.Equal(map[asynq.OptionType]any{
		asynq.QueueOpt:     "chat",
		asynq.TaskIDOpt:    "evt-1",
		asynq.MaxRetryOpt:  10,
		asynq.RetentionOpt: time.Hour,
	}, got)

	req.Empty(toAsynqOptions(port.EnqueueOption{}))
}

func Test_parseQueueWeights(t *testing.T) {
	req := require.New(t)
	req.Equal(map[string]int{"critical": 6, "chat": 3, "low": 1, "bad": 1}, parseQueueWeights(" critical=6, chat=3 ,low,=4,bad=x"))
	req.Empty(parseQueueWeights(""))
}
