package guard

import (
	"context"
	"time"

	"hk-explorer-be/internal/pkg/logger"
)

// Fallback uses primary and switches to secondary for any call where primary
// errors, so a Redis outage degrades to per-process claims.
type Fallback struct {
	primary   Guard
	secondary Guard
	logger    logger.ILogger
}

func NewFallback(primary, secondary Guard, log logger.ILogger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: log}
}

func (f *Fallback) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, bool, error) {
	if f.primary != nil {
		release, ok, err := f.primary.Acquire(ctx, key, ttl)
		if err == nil {
			return release, ok, nil
		}
		f.logger.Warn("Guard", "primary guard unavailable, using in-process guard", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
	return f.secondary.Acquire(ctx, key, ttl)
}
