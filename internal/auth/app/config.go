package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. Only the signing secret has no
// default; everything else runs out of the box for local development.
type Config struct {
	Env       string `env:"ENV"        envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT"       envDefault:"8080"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`

	// SigningSecret is the shared HS256 secret. Startup fails when it is
	// shorter than 32 bytes.
	SigningSecret string `env:"AUTH_SIGNING_SECRET"`
	Issuer        string `env:"AUTH_ISSUER"   envDefault:"vantage-auth"`
	Audience      string `env:"AUTH_AUDIENCE" envDefault:"vantage-api"`

	AccessTTL  time.Duration `env:"AUTH_ACCESS_TTL"  envDefault:"15m"`
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"168h"`

	MaxLoginAttempts int           `env:"AUTH_MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LockoutDuration  time.Duration `env:"AUTH_LOCKOUT_DURATION"   envDefault:"15m"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
