package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupeService is the Redis fast path for webhook idempotency. The unique
// index on webhook_events.dedupe_key is the durable guarantee; this just
// short-circuits redeliveries before they hit the database.
type DedupeService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupeService creates a dedupe service. A nil client disables the
// fast path (FirstSeen always reports true).
func NewDedupeService(client *redis.Client, ttl time.Duration) *DedupeService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DedupeService{client: client, ttl: ttl}
}

// FirstSeen atomically records a dedupe key and reports whether this is
// the first delivery. Redis errors degrade to "first seen" so a cache
// outage never drops webhooks.
func (s *DedupeService) FirstSeen(ctx context.Context, key string) bool {
	if s.client == nil {
		return true
	}

	ok, err := s.client.SetNX(ctx, "webhook_dedupe:"+key, "1", s.ttl).Result()
	if err != nil {
		fmt.Printf("Dedupe: SetNX failed for key %s: %v\n", key, err)
		return true
	}
	return ok
}
