package goSession

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goSession/internal/rate"
	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated failed logins.
//
// Every attempt first reserves a slot with ReserveLogin, which must check
// and count in one atomic step and return ErrLoginRateLimited once the
// budget for the email or IP is spent. A wrong password keeps its slot. An
// attempt that never reached a verdict is handed back with ReleaseLogin,
// and a successful login calls ResetLogin.
type LoginLimiter interface {
	ReserveLogin(ctx context.Context, email, ip string) error
	ReleaseLogin(ctx context.Context, email, ip string) error
	ResetLogin(ctx context.Context, email, ip string) error
}

// LoginLimiterConfig tunes the Redis login limiter.
type LoginLimiterConfig struct {
	// Prefix namespaces limiter keys. Defaults to "gosession".
	Prefix string
	// MaxAttempts is the number of failed logins allowed per window.
	MaxAttempts int
	// Cooldown is the window length.
	Cooldown time.Duration
	// PerIP additionally counts failures per client IP.
	PerIP bool
}

// DefaultLoginLimiterConfig allows 5 failures per 15 minutes, per email and per IP.
func DefaultLoginLimiterConfig() LoginLimiterConfig {
	return LoginLimiterConfig{
		Prefix:      "gosession",
		MaxAttempts: 5,
		Cooldown:    15 * time.Minute,
		PerIP:       true,
	}
}

type redisLoginLimiter struct {
	limiter *rate.Limiter
}

// NewRedisLoginLimiter returns a LoginLimiter backed by fixed-window Redis
// counters. Zero fields of cfg take their defaults.
func NewRedisLoginLimiter(client redis.UniversalClient, cfg LoginLimiterConfig) LoginLimiter {
	def := DefaultLoginLimiterConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &redisLoginLimiter{limiter: rate.New(client, rate.Config{
		Prefix: cfg.Prefix,
		PerIP:  cfg.PerIP,
		Max:    cfg.MaxAttempts,
		Window: cfg.Cooldown,
	})}
}

func (l *redisLoginLimiter) ReserveLogin(ctx context.Context, email, ip string) error {
	return mapLimiterError(l.limiter.Reserve(ctx, email, ip))
}

func (l *redisLoginLimiter) ReleaseLogin(ctx context.Context, email, ip string) error {
	return mapLimiterError(l.limiter.Refund(ctx, email, ip))
}

func (l *redisLoginLimiter) ResetLogin(ctx context.Context, email, ip string) error {
	return mapLimiterError(l.limiter.Reset(ctx, email, ip))
}

func mapLimiterError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		return ErrLoginRateLimited
	default:
		return errors.Join(ErrLoginLimiterUnavailable, err)
	}
}

func limiterKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
