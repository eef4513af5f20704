package goSession

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimitedEnv(t *testing.T, maxAttempts int) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := newTestEnv(t, func(_ *Config, b *Builder) {
		b.WithLoginLimiter(NewRedisLoginLimiter(rdb, LoginLimiterConfig{
			Prefix:      "test",
			MaxAttempts: maxAttempts,
			Cooldown:    time.Minute,
			PerIP:       true,
		}))
	})
	return env, mr
}

func TestLoginLimiterBlocksAfterBudget(t *testing.T) {
	env, _ := newLimitedEnv(t, 2)
	env.createUser(t, "alice@example.com", "correct horse", directory.RoleUser)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "alice@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	jar := cookie.NewMapJar(nil)
	_, err := env.engine.Login(ctx, jar, "Alice@Example.com ", "correct horse")
	if !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}
	if len(jar.Outgoing()) != 0 {
		t.Fatal("rate limited login must not set a cookie")
	}

	snap := env.engine.MetricsSnapshot()
	if got := snap.Counters[MetricLoginRateLimited]; got != 1 {
		t.Fatalf("expected 1 rate limited login, got %d", got)
	}
	if got := snap.Counters[MetricLoginFailure]; got != 2 {
		t.Fatalf("expected 2 login failures, got %d", got)
	}
}

func TestLoginLimiterWindowExpires(t *testing.T) {
	env, mr := newLimitedEnv(t, 1)
	env.createUser(t, "bob@example.com", "correct horse", directory.RoleUser)
	ctx := context.Background()

	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "bob@example.com", "correct horse"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected ErrLoginRateLimited, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "bob@example.com", "correct horse"); err != nil {
		t.Fatalf("expected login after cooldown, got %v", err)
	}
}

func TestLoginSuccessResetsEmailCounter(t *testing.T) {
	env, mr := newLimitedEnv(t, 2)
	env.createUser(t, "carol@example.com", "correct horse", directory.RoleUser)
	ctx := context.Background()

	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "carol@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	env.login(t, "carol@example.com", "correct horse")

	if mr.Exists("test:login:carol@example.com") {
		t.Fatal("successful login should clear the email counter")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	env, _ := newLimitedEnv(t, 2)
	env.createUser(t, "dave@example.com", "correct horse", directory.RoleUser)
	ctx := WithClientIP(context.Background(), "203.0.113.9")

	for _, email := range []string{"x@example.com", "y@example.com"} {
		if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), email, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", email, err)
		}
	}

	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "dave@example.com", "correct horse"); !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("expected IP throttle, got %v", err)
	}
	if _, err := env.engine.Login(context.Background(), cookie.NewMapJar(nil), "dave@example.com", "correct horse"); err != nil {
		t.Fatalf("other addresses should not be throttled: %v", err)
	}
}

func TestLoginLimiterOutageFailsClosed(t *testing.T) {
	env, mr := newLimitedEnv(t, 2)
	env.createUser(t, "erin@example.com", "correct horse", directory.RoleUser)
	mr.Close()

	jar := cookie.NewMapJar(nil)
	_, err := env.engine.Login(context.Background(), jar, "erin@example.com", "correct horse")
	if !errors.Is(err, ErrLoginLimiterUnavailable) {
		t.Fatalf("expected ErrLoginLimiterUnavailable, got %v", err)
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("outage must not look like a credential error: %v", err)
	}
	if len(jar.Outgoing()) != 0 {
		t.Fatal("failed login must not set a cookie")
	}
}

func TestLoginLimiterHoldsUnderConcurrentFailures(t *testing.T) {
	env, mr := newLimitedEnv(t, 3)
	env.createUser(t, "frank@example.com", "correct horse", directory.RoleUser)
	ctx := context.Background()

	const attempts = 12
	var (
		wg               sync.WaitGroup
		mu               sync.Mutex
		invalid, limited int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "frank@example.com", "wrong")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrInvalidCredentials):
				invalid++
			case errors.Is(err, ErrLoginRateLimited):
				limited++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if invalid != 3 || limited != attempts-3 {
		t.Fatalf("expected 3 checked and %d limited, got %d and %d", attempts-3, invalid, limited)
	}
	if got, _ := mr.Get("test:login:frank@example.com"); got != "3" {
		t.Fatalf("email counter = %q, want 3", got)
	}
}

func TestLoginDirectoryErrorReleasesAttempt(t *testing.T) {
	env, mr := newLimitedEnv(t, 1)
	env.createUser(t, "gina@example.com", "correct horse", directory.RoleUser)
	ctx := WithClientIP(context.Background(), "198.51.100.4")

	env.dir.fail.Store(true)
	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "gina@example.com", "correct horse"); !errors.Is(err, errDirectoryDown) {
		t.Fatalf("expected directory error, got %v", err)
	}
	if mr.Exists("test:login:gina@example.com") || mr.Exists("test:login-ip:198.51.100.4") {
		t.Fatal("an attempt without a verdict must not use up the budget")
	}

	env.dir.fail.Store(false)
	if _, err := env.engine.Login(ctx, cookie.NewMapJar(nil), "gina@example.com", "correct horse"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if mr.Exists("test:login-ip:198.51.100.4") {
		t.Fatal("a successful login should hand back its ip slot")
	}
}
