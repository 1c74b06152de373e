package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // CALENDAR_TZ must resolve in images without zoneinfo

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// AppURL is the public address of the web client, used in email links.
	AppURL string `env:"APP_URL, default=http://localhost:5173"`
	// Store selects the data backend: postgres or memory.
	Store string `env:"STORE, default=postgres"`
	// SeedPassword is given to the demo accounts of the memory store.
	SeedPassword string `env:"SEED_PASSWORD, default=delta123"`

	Auth     AuthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Mail     MailConfig
	Kafka    KafkaConfig
	Features FeatureConfig
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	SessionTTL  time.Duration `env:"SESSION_TTL,  default=24h"`
	RecoveryTTL time.Duration `env:"RECOVERY_TTL, default=1h"`
	// SessionIdle evicts in-memory session state after inactivity; the
	// session itself stays valid until SessionTTL.
	SessionIdle time.Duration `env:"SESSION_IDLE, default=30m"`
}

type PostgresConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int    `env:"DB_MAX_CONNS, default=10"`
	// AutoMigrate applies pending migrations on serve.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// MongoConfig configures the notification delivery log. An empty URI
// disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=helpdesk"`
}

type MailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendURL    string `env:"RESEND_URL, default=https://api.resend.com/emails"`
	From         string `env:"MAIL_FROM,  default=Help Desk Delta <nao-responda@deltadomusadm.com.br>"`
	// RelayURL routes notifications through a send-email relay instead of
	// calling the provider directly.
	RelayURL string `env:"NOTIFY_RELAY_URL"`
	Workers  int    `env:"NOTIFY_WORKERS, default=4"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC, default=helpdesk.tickets"`
}

type FeatureConfig struct {
	// CalendarTZ is the IANA zone calendar days are evaluated in.
	CalendarTZ string `env:"CALENDAR_TZ, default=America/Sao_Paulo"`
	// InternalNotes lets staff flag comments as internal.
	InternalNotes bool `env:"INTERNAL_NOTES, default=false"`
}

// Load reads .env files when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	return &cfg, nil
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.Store {
	case StorePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when STORE=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store))
	}
	if _, err := time.LoadLocation(c.Features.CalendarTZ); err != nil {
		errs = append(errs, fmt.Errorf("CALENDAR_TZ: %w", err))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsDevelopment reports whether pretty logging and demo data are wanted.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Location returns the calendar time zone, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Features.CalendarTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
