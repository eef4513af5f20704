// Command sessiond serves the goSession HTTP surface: registration, login,
// logout, the current user, an admin-only probe and Prometheus metrics.
//
// Configuration comes from the environment (see internal/envconfig). Only
// GOSESSION_SECRET is required; it must be at least 32 bytes.
//
//	GOSESSION_SECRET=$(openssl rand -hex 32) go run ./cmd/sessiond
//
//	curl -i -c jar.txt -X POST localhost:8080/auth/register \
//	  -H 'Content-Type: application/json' \
//	  -d '{"email":"alice@example.com","password":"correct-horse","name":"Alice"}'
//	curl -i -b jar.txt -c jar.txt localhost:8080/auth/me
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/directory/memory"
	"github.com/MrEthical07/goSession/directory/postgres"
	"github.com/MrEthical07/goSession/directory/redisdir"
	"github.com/MrEthical07/goSession/internal/envconfig"
	promexport "github.com/MrEthical07/goSession/metrics/export/prometheus"
	"github.com/MrEthical07/goSession/password"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := envconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sessiond: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sessiond: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("sessiond stopped")
	}
}

func run(ctx context.Context, cfg envconfig.Config, log zerolog.Logger) error {
	dir, limiter, closeDir, err := openDirectory(ctx, cfg, password.Default())
	if err != nil {
		return err
	}
	defer closeDir()

	if cfg.SeedAdmin != "" {
		if err := seedAdmin(ctx, dir, cfg.SeedAdmin, cfg.SeedPassword); err != nil {
			return err
		}
		log.Info().Str("email", cfg.SeedAdmin).Msg("admin account ready")
	}

	builder := goSession.New().
		WithConfig(cfg.Engine()).
		WithSecret([]byte(cfg.Secret)).
		WithUserDirectory(dir).
		WithLogger(log).
		WithAuditSink(goSession.NewLoggerSink(log.With().Str("component", "audit").Logger()))
	if limiter != nil {
		builder = builder.WithLoginLimiter(limiter)
	}
	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	metrics := promexport.NewExporter(engine)
	metrics.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := newRouter(engine, log, routerConfig{
		Metrics:           metrics.Handler(),
		CORSOrigins:       cfg.CORSOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("directory", cfg.Directory).
			Bool("production", cfg.ProductionMode).
			Bool("trust_proxy_headers", cfg.TrustProxyHeaders).
			Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg envconfig.Config) (zerolog.Logger, error) {
	var log zerolog.Logger
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log = zerolog.New(os.Stderr)
	case "console", "":
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown GOSESSION_LOG_FORMAT %q", cfg.LogFormat)
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return log.Level(lvl).With().Timestamp().Logger(), nil
}

// openDirectory opens the configured user directory. The Redis backend also
// returns a login limiter sharing its client; the others return nil.
func openDirectory(ctx context.Context, cfg envconfig.Config, hasher password.Hasher) (directory.Directory, goSession.LoginLimiter, func(), error) {
	switch cfg.Directory {
	case envconfig.DirectoryRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		var limiter goSession.LoginLimiter
		if cfg.LoginMaxAttempts > 0 {
			limiter = goSession.NewRedisLoginLimiter(rdb, cfg.LoginLimiter())
		}
		return redisdir.NewStore(rdb, cfg.RedisPrefix, hasher), limiter, func() { _ = rdb.Close() }, nil

	case envconfig.DirectoryPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		store := postgres.NewStore(pool, hasher)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return store, nil, pool.Close, nil

	default:
		return memory.New(hasher), nil, func() {}, nil
	}
}

// seedAdmin creates the admin account unless the email is already taken.
func seedAdmin(ctx context.Context, dir directory.Directory, email, pw string) error {
	_, err := dir.CreateUser(ctx, directory.CreateUserInput{
		Email:    email,
		Password: pw,
		Name:     "Administrator",
		Role:     directory.RoleAdmin,
	})
	if err != nil && !errors.Is(err, directory.ErrEmailExists) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
