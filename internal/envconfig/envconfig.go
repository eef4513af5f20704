// Package envconfig loads the sessiond process configuration from the
// environment.
package envconfig

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/caarlos0/env/v11"
)

// Directory backends accepted in GOSESSION_DIRECTORY.
const (
	DirectoryMemory   = "memory"
	DirectoryRedis    = "redis"
	DirectoryPostgres = "postgres"
)

// Config is the sessiond process configuration.
type Config struct {
	Addr   string `env:"GOSESSION_ADDR" envDefault:":8080"`
	Secret string `env:"GOSESSION_SECRET,required,notEmpty"`

	Directory    string `env:"GOSESSION_DIRECTORY" envDefault:"memory"`
	RedisAddr    string `env:"GOSESSION_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix  string `env:"GOSESSION_REDIS_PREFIX" envDefault:"gosession"`
	PostgresDSN  string `env:"GOSESSION_POSTGRES_DSN"`
	SeedAdmin    string `env:"GOSESSION_SEED_ADMIN_EMAIL"`
	SeedPassword string `env:"GOSESSION_SEED_ADMIN_PASSWORD"`

	SessionDuration  time.Duration `env:"GOSESSION_SESSION_DURATION" envDefault:"168h"`
	RefreshThreshold time.Duration `env:"GOSESSION_REFRESH_THRESHOLD" envDefault:"24h"`

	CookieName     string `env:"GOSESSION_COOKIE_NAME" envDefault:"gosession"`
	CookieDomain   string `env:"GOSESSION_COOKIE_DOMAIN"`
	ProductionMode bool   `env:"GOSESSION_PRODUCTION"`
	SameSite       string `env:"GOSESSION_COOKIE_SAMESITE" envDefault:"lax"`

	CORSOrigins []string `env:"GOSESSION_CORS_ORIGINS" envSeparator:","`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"GOSESSION_TRUST_PROXY_HEADERS"`

	LoginMaxAttempts int           `env:"GOSESSION_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginCooldown    time.Duration `env:"GOSESSION_LOGIN_COOLDOWN" envDefault:"15m"`

	AuditEnabled bool `env:"GOSESSION_AUDIT" envDefault:"true"`
	Metrics      bool `env:"GOSESSION_METRICS" envDefault:"true"`

	LogLevel  string `env:"GOSESSION_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GOSESSION_LOG_FORMAT" envDefault:"console"`
}

// Load parses the environment into a Config and checks the fields the
// engine does not validate itself.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Directory {
	case DirectoryMemory, DirectoryRedis:
	case DirectoryPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("GOSESSION_POSTGRES_DSN is required for the postgres directory")
		}
	default:
		return fmt.Errorf("unknown GOSESSION_DIRECTORY %q", c.Directory)
	}
	if _, err := c.sameSite(); err != nil {
		return err
	}
	if c.LoginMaxAttempts < 0 || c.LoginCooldown < 0 {
		return errors.New("GOSESSION_LOGIN_MAX_ATTEMPTS and GOSESSION_LOGIN_COOLDOWN must not be negative")
	}
	if (c.SeedAdmin == "") != (c.SeedPassword == "") {
		return errors.New("GOSESSION_SEED_ADMIN_EMAIL and GOSESSION_SEED_ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c Config) sameSite() (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(c.SameSite)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown GOSESSION_COOKIE_SAMESITE %q", c.SameSite)
	}
}

// Engine maps the process configuration onto an engine configuration.
func (c Config) Engine() goSession.Config {
	cfg := goSession.DefaultConfig()
	cfg.Session.Duration = c.SessionDuration
	cfg.Session.RefreshThreshold = c.RefreshThreshold
	cfg.Cookie.Name = c.CookieName
	cfg.Cookie.Domain = c.CookieDomain
	cfg.Cookie.ProductionMode = c.ProductionMode
	cfg.Cookie.SameSite, _ = c.sameSite()
	cfg.Audit.Enabled = c.AuditEnabled
	cfg.Metrics.Enabled = c.Metrics
	cfg.Metrics.EnableLatencyHistograms = c.Metrics
	return cfg
}

// LoginLimiter maps the throttle settings onto the Redis login limiter
// config. Keys share the directory prefix.
func (c Config) LoginLimiter() goSession.LoginLimiterConfig {
	return goSession.LoginLimiterConfig{
		Prefix:      c.RedisPrefix,
		MaxAttempts: c.LoginMaxAttempts,
		Cooldown:    c.LoginCooldown,
		PerIP:       true,
	}
}
