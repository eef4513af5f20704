package main

import (
	"context"
	"testing"
	"time"

	"github.com/MrEthical07/goSession/directory/directorytest"
	"github.com/MrEthical07/goSession/directory/memory"
	"github.com/MrEthical07/goSession/directory/redisdir"
	"github.com/MrEthical07/goSession/internal/envconfig"
	"github.com/alicebob/miniredis/v2"
)

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(envconfig.Config{LogFormat: "json", LogLevel: "debug"}); err != nil {
		t.Fatalf("newLogger error: %v", err)
	}
	if _, err := newLogger(envconfig.Config{LogFormat: "xml", LogLevel: "info"}); err == nil {
		t.Fatal("expected unknown format error")
	}
	if _, err := newLogger(envconfig.Config{LogFormat: "console", LogLevel: "loud"}); err == nil {
		t.Fatal("expected unknown level error")
	}
}

func TestOpenDirectoryMemory(t *testing.T) {
	dir, limiter, closeDir, err := openDirectory(context.Background(), envconfig.Config{Directory: envconfig.DirectoryMemory}, directorytest.FastHasher(t))
	if err != nil {
		t.Fatalf("openDirectory error: %v", err)
	}
	defer closeDir()
	if _, ok := dir.(*memory.Directory); !ok {
		t.Fatalf("expected memory directory, got %T", dir)
	}
	if limiter != nil {
		t.Fatalf("memory directory should not come with a login limiter")
	}
}

func TestOpenDirectoryRedisWithLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := envconfig.Config{
		Directory:        envconfig.DirectoryRedis,
		RedisAddr:        mr.Addr(),
		RedisPrefix:      "test",
		LoginMaxAttempts: 3,
		LoginCooldown:    time.Minute,
	}

	dir, limiter, closeDir, err := openDirectory(context.Background(), cfg, directorytest.FastHasher(t))
	if err != nil {
		t.Fatalf("openDirectory error: %v", err)
	}
	defer closeDir()
	if _, ok := dir.(*redisdir.Store); !ok {
		t.Fatalf("expected redis directory, got %T", dir)
	}
	if limiter == nil {
		t.Fatal("expected login limiter for redis directory")
	}

	cfg.LoginMaxAttempts = 0
	_, limiter, closeDir2, err := openDirectory(context.Background(), cfg, directorytest.FastHasher(t))
	if err != nil {
		t.Fatalf("openDirectory error: %v", err)
	}
	defer closeDir2()
	if limiter != nil {
		t.Fatal("zero attempts should disable the login limiter")
	}
}

func TestOpenDirectoryRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, _, err := openDirectory(context.Background(), envconfig.Config{
		Directory: envconfig.DirectoryRedis,
		RedisAddr: addr,
	}, directorytest.FastHasher(t))
	if err == nil {
		t.Fatal("expected ping error")
	}
}
