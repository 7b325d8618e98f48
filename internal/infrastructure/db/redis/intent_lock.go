package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockTTL bounds how long a lock left behind by a crashed process can block
// new intent creations for the same request.
const lockTTL = 30 * time.Second

// IntentLock serializes payment-intent creation per service request with a
// SET NX key. Key format: intent-lock:<service_request_id>
type IntentLock struct {
	client *redis.Client
}

// NewIntentLock creates an IntentLock wrapping the given Redis client.
func NewIntentLock(client *redis.Client) *IntentLock {
	return &IntentLock{client: client}
}

// Acquire takes the per-request lock; false means another creation is already
// in flight.
func (l *IntentLock) Acquire(ctx context.Context, serviceRequestID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(serviceRequestID), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("intent lock acquire: %w", err)
	}
	return ok, nil
}

// Release frees the lock before its TTL expires.
func (l *IntentLock) Release(ctx context.Context, serviceRequestID string) error {
	if err := l.client.Del(ctx, l.key(serviceRequestID)).Err(); err != nil {
		return fmt.Errorf("intent lock release: %w", err)
	}
	return nil
}

func (l *IntentLock) key(serviceRequestID string) string {
	return "intent-lock:" + serviceRequestID
}
