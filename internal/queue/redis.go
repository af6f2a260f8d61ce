package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const invalidationQueueKey = "fieldgraph:invalidation:queue"

var _ InvalidationQueue = (*RedisQueue)(nil)

// RedisQueue carries invalidations over a redis list so the recomputation
// workers can run in a separate process.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(addr string) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &RedisQueue{client: client}
}

func (r *RedisQueue) Publish(ctx context.Context, inv *Invalidation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, invalidationQueueKey, data).Err()
}

// Subscribe starts a reader loop popping from the redis list. The channel
// is closed when ctx is cancelled.
func (r *RedisQueue) Subscribe(ctx context.Context) (<-chan *Invalidation, error) {
	ch := make(chan *Invalidation)

	go func() {
		defer close(ch)
		for {
			res, err := r.client.BLPop(ctx, time.Second, invalidationQueueKey).Result()
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				logrus.Errorf("reading invalidation queue: %v", err)
				continue
			}

			// BLPop returns the key followed by the value.
			var inv Invalidation
			if err := json.Unmarshal([]byte(res[1]), &inv); err != nil {
				logrus.Errorf("decoding invalidation: %v", err)
				continue
			}

			select {
			case ch <- &inv:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
