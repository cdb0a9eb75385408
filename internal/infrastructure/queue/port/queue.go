package port

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateTask is returned by Enqueue when a task with the same TaskID is already queued.
var ErrDuplicateTask = errors.New("queue: duplicate task id")

// Task is a background job: a stable type name plus opaque payload bytes.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error asks the backend to retry, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified".
type EnqueueOption struct {
	Queue     string
	TaskID    string // deduplicates redelivery of the same logical job
	MaxRetry  int
	Retention time.Duration // keeps a completed task so its TaskID still rejects duplicates
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs workers. Run blocks until ctx is canceled and returns after the workers stop.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
}
