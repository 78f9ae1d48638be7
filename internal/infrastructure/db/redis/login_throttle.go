package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per login name in Redis.
// Key format: login:<lowercased login>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back to
// five attempts per fifteen minutes.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allowed reports whether login is still below the failure limit.
func (l *LoginThrottle) Allowed(ctx context.Context, login string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(login)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < l.maxAttempts, nil
}

// Failed records one failed attempt. The first failure of a burst starts the window.
func (l *LoginThrottle) Failed(ctx context.Context, login string) error {
	key := l.key(login)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, login string) error {
	return l.client.Del(ctx, l.key(login)).Err()
}

func (l *LoginThrottle) key(login string) string {
	return fmt.Sprintf("login:%s", strings.ToLower(strings.TrimSpace(login)))
}
