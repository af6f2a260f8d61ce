package queue

import "context"

// Invalidation tells the value recomputation layer which fields' dependency
// sets changed and why, so their cached values can be re-derived.
type Invalidation struct {
	FieldIDs []string `json:"field_ids"`
	Reason   string   `json:"reason"`
}

type InvalidationQueue interface {
	// Publish appends an invalidation to the queue.
	Publish(ctx context.Context, inv *Invalidation) error
	// Subscribe returns a channel delivering published invalidations.
	// Whether the channel closes on ctx cancellation depends on the
	// backend; consumers select on ctx alongside the channel.
	Subscribe(ctx context.Context) (<-chan *Invalidation, error)
}
