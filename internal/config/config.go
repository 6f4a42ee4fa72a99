// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// MinJWTSecretLength is the shortest accepted JWT_SECRET, in bytes.
const MinJWTSecretLength = 16

type Config struct {
	// HTTP server
	Port       int    `envconfig:"PORT" default:"8080"`
	StaticPath string `envconfig:"STATIC_PATH" default:"./web/dist"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	// Storage
	DataBackend string `envconfig:"DATA_BACKEND" default:"sqlite"`
	DBPath      string `envconfig:"DB_PATH" default:"./data/duitraya.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Auth
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	JWTTTL      time.Duration `envconfig:"JWT_TTL" default:"24h"`
	AdminEmails []string      `envconfig:"ADMIN_EMAILS"`

	// PlanningYear is the year new receivers default to. Zero means the
	// current calendar year at start-up.
	PlanningYear int `envconfig:"PLANNING_YEAR"`

	// Events, disabled when AMQPURL is empty
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"duitraya"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads envFiles (default ".env") if they exist, then the environment.
// Variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if cfg.PlanningYear == 0 {
		cfg.PlanningYear = time.Now().Year()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// EventsEnabled reports whether receiver events go to a broker.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d: must be between 1 and 65535", c.Port))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty when using the sqlite backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when using the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid DATA_BACKEND %q: must be %q or %q",
			c.DataBackend, BackendSQLite, BackendPostgres))
	}

	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLength))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid JWT_TTL %s: must be positive", c.JWTTTL))
	}

	if c.PlanningYear < 1 {
		errs = append(errs, fmt.Errorf("invalid PLANNING_YEAR %d: must be positive", c.PlanningYear))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid AMQP_URL: %w", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Errorf("invalid AMQP_URL scheme %q: must be amqp or amqps", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE cannot be empty when AMQP_URL is set"))
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn or error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat))
	}

	return errors.Join(errs...)
}
