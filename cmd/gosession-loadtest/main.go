// Command gosession-loadtest measures session resolution and sliding refresh
// throughput against a Redis-backed directory.
//
// Without -redis-addr or REDIS_ADDR it runs against an in-process miniredis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/directory/redisdir"
	"github.com/MrEthical07/goSession/internal"
	"github.com/MrEthical07/goSession/password"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const loadtestPassword = "loadtest-password"

type options struct {
	users       int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

func main() {
	var opts options
	flag.IntVar(&opts.users, "users", 1000, "users to seed and log in")
	flag.IntVar(&opts.concurrency, "concurrency", 256, "concurrent workers")
	flag.IntVar(&opts.ops, "ops", 200000, "GetSession calls per phase")
	flag.StringVar(&opts.redisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "redis address (default: miniredis)")
	flag.StringVar(&opts.prefix, "prefix", "gosession-loadtest", "directory key prefix")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "loadtest:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.users <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		return errors.New("users, concurrency and ops must be > 0")
	}

	client, closeRedis, err := openRedis(opts.redisAddr)
	if err != nil {
		return err
	}
	defer closeRedis()

	// Seeding hashes every password once; the cheapest accepted cost keeps
	// that out of the way.
	hasher, err := password.NewArgon2(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		return err
	}
	store := redisdir.NewStore(client, opts.prefix, hasher)

	clock := &shiftedClock{}
	cfg := goSession.DefaultConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	engine, err := goSession.New().
		WithConfig(cfg).
		WithSecret(randomSecret()).
		WithUserDirectory(store).
		WithClock(clock.Now).
		Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	fmt.Printf("seeding %d users...\n", opts.users)
	began := time.Now()
	tokens, err := seed(ctx, engine, store, opts.users)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Printf("seeded in %s\n", time.Since(began).Round(time.Millisecond))

	resolve := runPhase(ctx, engine, tokens, opts.ops, opts.concurrency)

	// Move every token into its refresh window.
	clock.Shift(cfg.Session.Duration - cfg.Session.RefreshThreshold/2)
	refresh := runPhase(ctx, engine, tokens, opts.ops, opts.concurrency)

	fmt.Println("---- results ----")
	resolve.print("resolve")
	refresh.print("refresh")

	c := engine.MetricsSnapshot().Counters
	fmt.Printf("counters: valid=%d refreshed=%d refresh_failed=%d user_gone=%d errors=%d\n",
		c[goSession.MetricSessionValid],
		c[goSession.MetricRefreshSuccess],
		c[goSession.MetricRefreshFailure],
		c[goSession.MetricSessionUserGone],
		c[goSession.MetricSessionResolveError],
	)
	return nil
}

func openRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Printf("using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}
	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Printf("using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

// shiftedClock is wall time plus an adjustable offset.
type shiftedClock struct {
	offset atomic.Int64
}

func (c *shiftedClock) Now() time.Time { return time.Now().Add(time.Duration(c.offset.Load())) }
func (c *shiftedClock) Shift(d time.Duration) { c.offset.Add(int64(d)) }

func randomSecret() []byte {
	secret, err := internal.CryptoRandomBytes(32)
	if err != nil {
		panic(err)
	}
	return secret
}

// seed creates n users and returns one session token per user.
func seed(ctx context.Context, engine *goSession.Engine, store *redisdir.Store, n int) ([]string, error) {
	tokens := make([]string, 0, n)
	for i := range n {
		email := fmt.Sprintf("user-%d@loadtest.example", i)
		in := directory.CreateUserInput{Email: email, Password: loadtestPassword, Name: fmt.Sprintf("User %d", i)}
		if _, err := store.CreateUser(ctx, in); err != nil {
			return nil, err
		}

		jar := cookie.NewMapJar(nil)
		if _, err := engine.Login(ctx, jar, email, loadtestPassword); err != nil {
			return nil, err
		}
		tok, ok := jar.Get(engine.CookieName())
		if !ok {
			return nil, fmt.Errorf("login for %s set no cookie", email)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// runPhase issues ops GetSession calls spread over concurrency workers, each
// picking random tokens. Workers keep their own samples and merge at the end.
func runPhase(ctx context.Context, engine *goSession.Engine, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg       sync.WaitGroup
		next     atomic.Int64
		failures atomic.Int64
		perWork  = make([][]time.Duration, concurrency)
	)
	name := engine.CookieName()

	began := time.Now()
	for w := range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var samples []time.Duration
			for next.Add(1) <= int64(ops) {
				jar := cookie.NewMapJar(map[string]string{name: tokens[rand.IntN(len(tokens))]})
				t0 := time.Now()
				user, err := engine.GetSession(ctx, jar)
				samples = append(samples, time.Since(t0))
				if err != nil || user == nil {
					failures.Add(1)
				}
			}
			perWork[w] = samples
		}()
	}
	wg.Wait()
	elapsed := time.Since(began)

	all := slices.Concat(perWork...)
	slices.Sort(all)
	return phaseStats{
		total:    elapsed,
		ops:      len(all),
		failures: failures.Load(),
		p50:      percentile(all, 50),
		p95:      percentile(all, 95),
		p99:      percentile(all, 99),
		opsPerS:  float64(len(all)) / elapsed.Seconds(),
	}
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func (s phaseStats) print(name string) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name, s.ops, s.failures, s.total.Round(time.Millisecond), s.opsPerS,
		s.p50.Round(time.Microsecond), s.p95.Round(time.Microsecond), s.p99.Round(time.Microsecond))
}

// percentile reads p from sorted samples using the nearest-rank-below index.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 100)
	return sorted[(len(sorted)-1)*p/100]
}
