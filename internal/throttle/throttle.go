// Package throttle provides a fixed-window counter backed by a shared
// key-value store, so limits hold across multiple server instances.
package throttle

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Storage is the subset of the gofiber storage interface the limiter needs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Limiter caps how many times an action may happen per key within a window.
type Limiter struct {
	store  Storage
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// New creates a limiter. A limit <= 0 allows everything.
func New(store Storage, limit int, window time.Duration, prefix string) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow records one occurrence for key and reports whether it is within
// the window's limit. Counters live in fixed window buckets and expire
// with the bucket. The read-modify-write is not atomic, so concurrent
// senders can overshoot the cap by a few requests per window.
func (l *Limiter) Allow(key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	if l.store == nil {
		return false, errors.New("throttle storage not configured")
	}

	bucket := l.now().Truncate(l.window).Unix()
	storageKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	raw, err := l.store.Get(storageKey)
	if err != nil {
		return false, fmt.Errorf("throttle read failed: %w", err)
	}

	count := 0
	if len(raw) > 0 {
		count, _ = strconv.Atoi(string(raw))
	}

	if count >= l.limit {
		return false, nil
	}

	if err := l.store.Set(storageKey, []byte(strconv.Itoa(count+1)), l.window); err != nil {
		return false, fmt.Errorf("throttle write failed: %w", err)
	}

	return true, nil
}
