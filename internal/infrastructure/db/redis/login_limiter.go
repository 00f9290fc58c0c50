package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

// LimiterConfig holds the failed-login budgets. MaxAttempts applies to one
// email from one client address, MaxIPAttempts to one client address across
// all emails.
type LimiterConfig struct {
	MaxAttempts   int
	MaxIPAttempts int
	Cooldown      time.Duration
}

// LoginLimiter counts failed password logins in Redis. Each counter expires
// Cooldown after the first failure of its window.
//
// Key format:
//
//	login:fail:acct:<email>|<ip>
//	login:fail:ip:<ip>
type LoginLimiter struct {
	client redis.UniversalClient
	cfg    LimiterConfig
}

// NewLoginLimiter returns a limiter; MaxAttempts <= 0 disables it and
// MaxIPAttempts <= 0 disables the per-address budget only.
func NewLoginLimiter(client redis.UniversalClient, cfg LimiterConfig) *LoginLimiter {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Minute
	}
	return &LoginLimiter{client: client, cfg: cfg}
}

func (l *LoginLimiter) Check(ctx context.Context, email, ip string) error {
	if l.cfg.MaxAttempts <= 0 {
		return nil
	}
	if err := l.checkCounter(ctx, accountKey(email, ip), l.cfg.MaxAttempts); err != nil {
		return err
	}
	if l.ipEnabled(ip) {
		return l.checkCounter(ctx, ipKey(ip), l.cfg.MaxIPAttempts)
	}
	return nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	if l.cfg.MaxAttempts <= 0 {
		return nil
	}
	if err := l.increment(ctx, accountKey(email, ip)); err != nil {
		return err
	}
	if l.ipEnabled(ip) {
		return l.increment(ctx, ipKey(ip))
	}
	return nil
}

// Reset forgets the failures of email from ip. The address budget is left
// alone so one valid account cannot refill it.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if l.cfg.MaxAttempts <= 0 {
		return nil
	}
	if err := l.client.Del(ctx, accountKey(email, ip)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) ipEnabled(ip string) bool {
	return ip != "" && l.cfg.MaxIPAttempts > 0
}

func (l *LoginLimiter) checkCounter(ctx context.Context, key string, max int) error {
	n, err := l.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("login limiter check: %w", err)
	}
	if n >= max {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// increment bumps key and sets its expiry in one transaction. EXPIRE NX only
// applies to a key without a TTL, so a window is never extended and a key
// left without one by an earlier failure is repaired.
func (l *LoginLimiter) increment(ctx context.Context, key string) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.cfg.Cooldown)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

func accountKey(email, ip string) string {
	return "login:fail:acct:" + email + "|" + ip
}

func ipKey(ip string) string {
	return "login:fail:ip:" + ip
}

var _ ports.LoginLimiter = (*LoginLimiter)(nil)
