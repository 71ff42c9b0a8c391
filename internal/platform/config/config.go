package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	TokenSigningKey string
	ShutdownTimeout time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Nav      NavConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds Kafka producer settings for the audit sink.
type KafkaConfig struct {
	Brokers         string
	AuditTopic      string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// NavConfig holds the navigation controller's timing knobs. The values are
// injectable so tests can simulate decay and backoff without real timers.
type NavConfig struct {
	// ResolveAttempts bounds profile resolution against read-after-write lag.
	ResolveAttempts int
	// ResolveBackoffStep is multiplied by the attempt number between retries.
	ResolveBackoffStep time.Duration
	// UserIntentWindow is how long an explicit user navigation suppresses
	// automatic redirects.
	UserIntentWindow time.Duration
	// UserActionWindow is how long any route-changing user action counts as recent.
	UserActionWindow time.Duration
	// EscapeWindow is how long a deliberate exit from the pending-approval
	// screen keeps the pull-back suppressed.
	EscapeWindow time.Duration
}

// DefaultNavConfig returns the canonical navigation timing values.
func DefaultNavConfig() NavConfig {
	return NavConfig{
		ResolveAttempts:    3,
		ResolveBackoffStep: 500 * time.Millisecond,
		UserIntentWindow:   2000 * time.Millisecond,
		UserActionWindow:   3000 * time.Millisecond,
		EscapeWindow:       5000 * time.Millisecond,
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("STUDIOGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("STUDIOGATE_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	nav := DefaultNavConfig()
	nav.ResolveAttempts = envInt("STUDIOGATE_RESOLVE_ATTEMPTS", nav.ResolveAttempts)
	nav.ResolveBackoffStep = envDuration("STUDIOGATE_RESOLVE_BACKOFF", nav.ResolveBackoffStep)
	nav.UserIntentWindow = envDuration("STUDIOGATE_USER_INTENT_WINDOW", nav.UserIntentWindow)
	nav.UserActionWindow = envDuration("STUDIOGATE_USER_ACTION_WINDOW", nav.UserActionWindow)
	nav.EscapeWindow = envDuration("STUDIOGATE_ESCAPE_WINDOW", nav.EscapeWindow)

	return Server{
		Addr:            addr,
		TokenSigningKey: signingKey,
		ShutdownTimeout: envDuration("STUDIOGATE_SHUTDOWN_TIMEOUT", 10*time.Second),
		Database: DatabaseConfig{
			URL:             os.Getenv("STUDIOGATE_DATABASE_URL"),
			MaxOpenConns:    envInt("STUDIOGATE_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("STUDIOGATE_DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("STUDIOGATE_DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("STUDIOGATE_REDIS_URL"),
			PoolSize:     envInt("STUDIOGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("STUDIOGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("STUDIOGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("STUDIOGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("STUDIOGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("STUDIOGATE_KAFKA_BROKERS"),
			AuditTopic:      envString("STUDIOGATE_AUDIT_TOPIC", "studiogate.audit"),
			Acks:            envString("STUDIOGATE_KAFKA_ACKS", "all"),
			Retries:         envInt("STUDIOGATE_KAFKA_RETRIES", 3),
			DeliveryTimeout: envDuration("STUDIOGATE_KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
		},
		Nav: nav,
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
