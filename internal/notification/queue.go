package notification

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by a bounded queue that cannot take more tasks.
var ErrQueueFull = errors.New("notification queue is full")

// Queue is a FIFO of tasks shared between producers and the worker.
// Dequeue blocks until a task is available, ctx is done, or the
// implementation's poll interval elapses, in which case it returns (nil, nil).
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Dequeue(ctx context.Context) (*Task, error)
}

// MemoryQueue is a bounded in-process queue backed by a channel.
type MemoryQueue struct {
	tasks chan Task
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	return &MemoryQueue{tasks: make(chan Task, size)}
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*Task, error) {
	select {
	case task := <-q.tasks:
		return &task, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}
