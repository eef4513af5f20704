package goSession

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/internal"
	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/token"
	"github.com/rs/zerolog"
)

// Builder assembles an Engine. A Builder is single-use: Build may be
// called once.
type Builder struct {
	config    Config
	secret    []byte
	directory directory.Directory
	auditSink AuditSink
	limiter   LoginLimiter
	logger    zerolog.Logger
	random    RandomBytesFunc
	now       func() time.Time

	built bool
}

// New returns a Builder holding DefaultConfig and a no-op logger.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecret sets the server secret tokens are encrypted under. It must be
// at least 32 bytes. The slice is copied.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.secret = append([]byte(nil), secret...)
	return b
}

// WithUserDirectory sets the directory users are resolved from.
func (b *Builder) WithUserDirectory(d directory.Directory) *Builder {
	b.directory = d
	return b
}

// WithAuditSink sets the sink receiving audit events when Config.Audit is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLoginLimiter enables failed login throttling.
func (b *Builder) WithLoginLimiter(l LoginLimiter) *Builder {
	b.limiter = l
	return b
}

// WithLogger sets the structured logger used by the engine.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.logger = log
	return b
}

// WithRandomSource replaces the source of refresh nonces. Intended for tests.
func (b *Builder) WithRandomSource(fn RandomBytesFunc) *Builder {
	b.random = fn
	return b
}

// WithClock replaces time.Now. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(b.secret) == 0 {
		return nil, ErrSecretRequired
	}
	if b.directory == nil {
		return nil, ErrDirectoryRequired
	}

	codec, err := token.NewCodec(b.secret)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	transport, err := cookie.NewTransport(cookie.Options{
		Name:     cfg.Cookie.Name,
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		MaxAge:   cfg.Session.Duration,
		Secure:   cfg.Cookie.ProductionMode,
		SameSite: cfg.Cookie.SameSite,
	})
	if err != nil {
		return nil, err
	}

	random := b.random
	if random == nil {
		random = internal.CryptoRandomBytes
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	engine := &Engine{
		config:    cfg,
		codec:     codec,
		transport: transport,
		directory: b.directory,
		limiter:   b.limiter,
		metrics:   NewMetrics(cfg.Metrics),
		log:       b.logger.With().Str("component", "gosession").Logger(),
		random:    random,
		now:       now,
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true
	return engine, nil
}
