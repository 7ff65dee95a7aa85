package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	return r.WithTimeout(2 * time.Second)
}

// NXSetter is the slice of the redis client ClaimOnce needs; callers can
// hand in a fake in tests.
type NXSetter interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// ClaimOnce sets the key only if absent and reports whether this caller won
// the claim. SETNX is atomic, so concurrent claimants get exactly one winner.
// Used to keep a batch label from importing twice and to dedup consumed events.
func ClaimOnce(ctx context.Context, rdb NXSetter, key string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, key, "1", ttl).Result()
}
