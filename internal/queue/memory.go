package queue

import "context"

var _ InvalidationQueue = (*MemoryQueue)(nil)

// MemoryQueue is an in-process invalidation queue used in tests and single
// node deployments.
type MemoryQueue struct {
	ch chan *Invalidation
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		ch: make(chan *Invalidation, 256),
	}
}

func (m *MemoryQueue) Publish(ctx context.Context, inv *Invalidation) error {
	select {
	case m.ch <- inv:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe hands out the buffer directly, so a publish is visible to the
// subscriber as soon as Publish returns. The channel stays open across
// cancellations; it is owned by the queue, not the subscription.
func (m *MemoryQueue) Subscribe(ctx context.Context) (<-chan *Invalidation, error) {
	return m.ch, nil
}
