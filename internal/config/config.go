package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Profile store drivers.
const (
	ProfileStorePostgres = "postgres"
	ProfileStoreMongo    = "mongo"
)

// Push gateway drivers.
const (
	PushDriverWebhook = "webhook"
	PushDriverRedis   = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	ProfileStore ProfileStoreConfig
	Push         PushConfig
	Reminder     ReminderConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// ProfileStoreConfig selects where profile records live.
type ProfileStoreConfig struct {
	Driver     string
	Collection string
}

// PushConfig configures the notification gateway.
type PushConfig struct {
	Driver         string
	Endpoint       string
	ServerKey      string
	Stream         string
	TimeoutSeconds int
}

// ReminderConfig configures the daily check-in reminder.
type ReminderConfig struct {
	Title          string
	Body           string
	At             string
	Timezone       string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "attendance-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", "attendance"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		ProfileStore: ProfileStoreConfig{
			Driver:     strings.ToLower(getEnv("PROFILE_STORE_DRIVER", ProfileStorePostgres)),
			Collection: getEnv("PROFILE_STORE_COLLECTION", "users"),
		},
		Push: PushConfig{
			Driver:         strings.ToLower(getEnv("PUSH_DRIVER", PushDriverWebhook)),
			Endpoint:       os.Getenv("PUSH_ENDPOINT"),
			ServerKey:      os.Getenv("PUSH_SERVER_KEY"),
			Stream:         getEnv("PUSH_STREAM", "push:outbox"),
			TimeoutSeconds: getEnvAsInt("PUSH_TIMEOUT_SECONDS", 10),
		},
		Reminder: ReminderConfig{
			Title:          getEnv("REMINDER_TITLE", "Check-in Reminder"),
			Body:           getEnv("REMINDER_BODY", "You haven't checked in yet today. Please remember to check in."),
			At:             getEnv("REMINDER_AT", "09:00"),
			Timezone:       getEnv("REMINDER_TIMEZONE", "Asia/Singapore"),
			TimeoutSeconds: getEnvAsInt("REMINDER_TIMEOUT_SECONDS", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ProfileStore.Driver {
	case ProfileStorePostgres, ProfileStoreMongo:
	default:
		return fmt.Errorf("invalid PROFILE_STORE_DRIVER %q", c.ProfileStore.Driver)
	}
	switch c.Push.Driver {
	case PushDriverWebhook, PushDriverRedis:
	default:
		return fmt.Errorf("invalid PUSH_DRIVER %q", c.Push.Driver)
	}
	if _, _, err := c.Reminder.Slot(); err != nil {
		return err
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call gateway timeout.
func (p PushConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Timeout bounds a single reminder run.
func (r ReminderConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Slot parses the wall-clock time of day and timezone the reminder is scheduled for.
func (r ReminderConfig) Slot() (time.Duration, *time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", r.Timezone, err)
	}
	at, err := time.Parse("15:04", r.At)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid REMINDER_AT %q: %w", r.At, err)
	}
	offset := time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute
	return offset, loc, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
