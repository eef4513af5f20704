package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config tunes a Limiter.
type Config struct {
	// Prefix namespaces keys. Defaults to "gosession". In Redis Cluster it
	// must carry a hash tag, e.g. "{gosession}", because one attempt touches
	// the email and IP keys in a single script.
	Prefix string
	// PerIP adds a second counter keyed by client IP.
	PerIP bool
	// Max attempts allowed inside one window.
	Max int
	// Window is the fixed window length, started by the first attempt.
	Window time.Duration
}

// reserveScript refuses when any counter in KEYS has reached ARGV[1];
// otherwise it counts the attempt on every counter, starting the window of
// a fresh key. Check and count happen in one step so concurrent attempts
// cannot overshoot Max.
var reserveScript = redis.NewScript(`
local max = tonumber(ARGV[1])
for _, key in ipairs(KEYS) do
	if tonumber(redis.call('GET', key) or '0') >= max then
		return 0
	end
end
for _, key in ipairs(KEYS) do
	if redis.call('INCR', key) == 1 then
		redis.call('PEXPIRE', key, ARGV[2])
	end
end
return 1
`)

// refundScript takes one attempt back from every counter in KEYS. A counter
// that reaches zero, or had already expired, is removed.
var refundScript = redis.NewScript(`
for _, key in ipairs(KEYS) do
	if redis.call('DECR', key) <= 0 then
		redis.call('DEL', key)
	end
end
return 1
`)

// Limiter keeps fixed-window attempt counters in Redis under
// <prefix>:login:<email> and <prefix>:login-ip:<ip>.
type Limiter struct {
	rdb redis.UniversalClient
	cfg Config
}

// New returns a Limiter using rdb. An empty Prefix becomes "gosession".
func New(rdb redis.UniversalClient, cfg Config) *Limiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "gosession"
	}
	return &Limiter{rdb: rdb, cfg: cfg}
}

func (l *Limiter) emailKey(email string) string { return l.cfg.Prefix + ":login:" + email }
func (l *Limiter) ipKey(ip string) string { return l.cfg.Prefix + ":login-ip:" + ip }

func (l *Limiter) keys(email, ip string) []string {
	keys := []string{l.emailKey(email)}
	if l.cfg.PerIP && ip != "" {
		keys = append(keys, l.ipKey(ip))
	}
	return keys
}

// Reserve counts one attempt against the email and, with PerIP, the ip
// counters. It returns ErrRateLimited without counting when any of them has
// already reached Max. A reserved attempt that turns out not to be a
// failure is handed back with Refund or Reset.
func (l *Limiter) Reserve(ctx context.Context, email, ip string) error {
	ok, err := reserveScript.Run(ctx, l.rdb, l.keys(email, ip),
		l.cfg.Max, strconv.FormatInt(l.cfg.Window.Milliseconds(), 10)).Int()
	if err != nil {
		return unavailable(err)
	}
	if ok == 0 {
		return ErrRateLimited
	}
	return nil
}

// Refund gives back one reserved attempt on every counter Reserve touched.
func (l *Limiter) Refund(ctx context.Context, email, ip string) error {
	if err := refundScript.Run(ctx, l.rdb, l.keys(email, ip)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Reset follows a successful login. It clears the email counter and refunds
// the attempt on the IP counter, which otherwise keeps running so a single
// correct password cannot wipe out a spray from the same address.
func (l *Limiter) Reset(ctx context.Context, email, ip string) error {
	if err := l.rdb.Del(ctx, l.emailKey(email)).Err(); err != nil {
		return unavailable(err)
	}
	if !l.cfg.PerIP || ip == "" {
		return nil
	}
	if err := refundScript.Run(ctx, l.rdb, []string{l.ipKey(ip)}).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
}
