package goSession

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/directory/memory"
	"github.com/MrEthical07/goSession/internal"
	"github.com/MrEthical07/goSession/password"
	"github.com/MrEthical07/goSession/session"
)

var testSecret = []byte("test-secret-test-secret-test-secret!")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyDirectory wraps a memory directory and can be switched to fail lookups.
type flakyDirectory struct {
	*memory.Directory
	fail          atomic.Bool
	findByIDCalls atomic.Int64
}

var errDirectoryDown = errors.New("directory down")

func (d *flakyDirectory) FindUserByID(ctx context.Context, id string) (*directory.User, error) {
	d.findByIDCalls.Add(1)
	if d.fail.Load() {
		return nil, errDirectoryDown
	}
	return d.Directory.FindUserByID(ctx, id)
}

func (d *flakyDirectory) FindUserByEmailAndPassword(ctx context.Context, email, pw string) (*directory.User, error) {
	if d.fail.Load() {
		return nil, errDirectoryDown
	}
	return d.Directory.FindUserByEmailAndPassword(ctx, email, pw)
}

func (d *flakyDirectory) IsEmailExists(ctx context.Context, email string) (bool, error) {
	if d.fail.Load() {
		return false, errDirectoryDown
	}
	return d.Directory.IsEmailExists(ctx, email)
}

// switchableRandom fails once broken is set.
type switchableRandom struct {
	broken atomic.Bool
}

func (r *switchableRandom) Read(n int) ([]byte, error) {
	if r.broken.Load() {
		return nil, errors.New("entropy unavailable")
	}
	return internal.CryptoRandomBytes(n)
}

type testEnv struct {
	engine *Engine
	dir    *flakyDirectory
	clock  *fakeClock
	random *switchableRandom
}

func fastHasher(t *testing.T) *password.Argon2 {
	t.Helper()
	h, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	return h
}

func newTestEnv(t *testing.T, mutate func(cfg *Config, b *Builder)) *testEnv {
	t.Helper()

	env := &testEnv{
		dir:    &flakyDirectory{Directory: memory.New(fastHasher(t))},
		clock:  newFakeClock(),
		random: &switchableRandom{},
	}

	cfg := DefaultConfig()
	b := New().
		WithSecret(testSecret).
		WithUserDirectory(env.dir).
		WithClock(env.clock.Now).
		WithRandomSource(env.random.Read)
	if mutate != nil {
		mutate(&cfg, b)
	}
	b.WithConfig(cfg)

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	env.engine = engine
	return env
}

func (env *testEnv) createUser(t *testing.T, email, pw string, role directory.Role) *directory.User {
	t.Helper()
	u, err := env.dir.CreateUser(context.Background(), directory.CreateUserInput{
		Email:    email,
		Password: pw,
		Name:     "Test " + string(role),
		Role:     role,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

// login returns a jar holding a fresh session cookie for email.
func (env *testEnv) login(t *testing.T, email, pw string) *cookie.MapJar {
	t.Helper()
	jar := cookie.NewMapJar(nil)
	if _, err := env.engine.Login(context.Background(), jar, email, pw); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return jar
}

func (env *testEnv) payload(t *testing.T, jar cookie.Jar) *session.Payload {
	t.Helper()
	tok, ok := env.engine.transport.Read(jar)
	if !ok {
		t.Fatal("expected session cookie in jar")
	}
	p, err := env.engine.codec.Open(tok)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return p
}

func sessionCookies(jar *cookie.MapJar, name string) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range jar.Outgoing() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
