package locker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

const retryInterval = 50 * time.Millisecond

// Redis holds keys across every instance sharing the Redis server.
type Redis struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedis wraps rdb. ttl bounds how long a crashed holder can block others and
// how long Obtain keeps retrying.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: redislock.New(rdb), ttl: ttl}
}

var _ portssvc.Locker = (*Redis)(nil)

// Obtain retries with a linear backoff until the key is held or ttl elapses.
func (r *Redis) Obtain(ctx context.Context, key string) (func(), error) {
	attempts := int(r.ttl / retryInterval)
	if attempts < 1 {
		attempts = 1
	}
	lock, err := r.client.Obtain(ctx, key, r.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), attempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: lock %s is held elsewhere", apperrors.ErrConcurrentModification, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn("Failed to release redis lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}
