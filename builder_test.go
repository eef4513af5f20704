package goSession

import (
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/directory/memory"
	"github.com/MrEthical07/goSession/token"
)

func TestBuildRequiresSecretAndDirectory(t *testing.T) {
	dir := memory.New(fastHasher(t))

	if _, err := New().WithUserDirectory(dir).Build(); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
	if _, err := New().WithSecret(testSecret).Build(); !errors.Is(err, ErrDirectoryRequired) {
		t.Fatalf("expected ErrDirectoryRequired, got %v", err)
	}
	if _, err := New().WithSecret([]byte("short")).WithUserDirectory(dir).Build(); !errors.Is(err, token.ErrWeakSecret) {
		t.Fatalf("expected ErrWeakSecret, got %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.RefreshThreshold = cfg.Session.Duration + time.Hour

	_, err := New().
		WithConfig(cfg).
		WithSecret(testSecret).
		WithUserDirectory(memory.New(fastHasher(t))).
		Build()
	if err == nil {
		t.Fatal("expected invalid config error")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().WithSecret(testSecret).WithUserDirectory(memory.New(fastHasher(t)))
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderCopiesSecret(t *testing.T) {
	secret := append([]byte(nil), testSecret...)
	env := newTestEnv(t, func(_ *Config, b *Builder) { b.WithSecret(secret) })
	env.createUser(t, "copy@example.com", "pw-copy", RoleUser)
	jar := env.login(t, "copy@example.com", "pw-copy")

	for i := range secret {
		secret[i] = 0
	}
	if env.payload(t, jar) == nil {
		t.Fatal("engine must not observe later mutation of the secret")
	}
}

func TestEnginesWithDifferentSecretsRejectEachOther(t *testing.T) {
	a := newTestEnv(t, nil)
	a.createUser(t, "x@example.com", "pw-x", RoleUser)
	tok, _ := a.login(t, "x@example.com", "pw-x").Get(a.engine.CookieName())

	b := newTestEnv(t, func(_ *Config, b *Builder) {
		b.WithSecret([]byte("another-secret-another-secret-0123"))
	})
	if p := b.engine.codec.Decrypt(tok); p != nil {
		t.Fatal("token must not open under a different secret")
	}
}

func TestEngineConfigAndCookieName(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config, _ *Builder) { cfg.Cookie.Name = "sid" })
	if env.engine.CookieName() != "sid" || env.engine.Config().Cookie.Name != "sid" {
		t.Fatalf("unexpected cookie name %q", env.engine.CookieName())
	}
}
