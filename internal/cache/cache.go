// Package cache provides the small key/value surface the services need:
// JSON snapshots with TTL, presence flags and fixed-window counters.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// GetJSON decodes the value at key into dst and reports whether it was found.
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Flag sets a presence marker that expires after ttl.
	Flag(ctx context.Context, key string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr bumps a counter, starting its window on the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Noop never stores anything. It is used when REDIS_ADDR is unset.
type Noop struct{}

var _ Cache = Noop{}

func (Noop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error { return nil }
func (Noop) Flag(context.Context, string, time.Duration) error { return nil }
func (Noop) Exists(context.Context, string) (bool, error) { return false, nil }
func (Noop) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }
func (Noop) Ping(context.Context) error { return nil }
