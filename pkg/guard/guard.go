// Package guard rejects duplicate concurrent work keyed by a string.
package guard

import (
	"context"
	"time"
)

// Release frees an acquired key. It is safe to call more than once.
type Release func()

// Guard hands out short-lived exclusive claims on keys.
type Guard interface {
	// Acquire claims key for at most ttl. ok is false when someone else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release Release, ok bool, err error)
}

func noop() {}
