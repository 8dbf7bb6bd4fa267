// Package config builds runtime configuration from environment variables so
// main stays lean. Every value has a development default; production
// deployments override via the environment.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures all runtime configuration for the server.
type Config struct {
	Addr string
	Env  string

	Google GoogleConfig
	JWT    JWTConfig

	Store StoreConfig
	Redis RedisConfig
	Kafka KafkaConfig

	Catalog CatalogConfig
	LogFile string

	// SessionSecret signs the short-lived OAuth state cookie.
	SessionSecret string
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// JWTConfig holds session-token signing parameters.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// StoreConfig selects and parameterizes the user-store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", "postgres".
	Backend     string
	DatabaseURL string
	DataDir     string
}

// RedisConfig holds connection settings for the token revocation list.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds audit-publisher settings. Empty Brokers disables Kafka.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CatalogConfig holds the external game-catalog API settings.
type CatalogConfig struct {
	RAWGAPIKey string
}

// IsProduction reports whether the server runs with production hardening
// (secure cookies, no dev secrets).
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// FromEnv builds a Config from environment variables with dev defaults.
func FromEnv() Config {
	port := getenv("PORT", "5000")

	cfg := Config{
		Addr: ":" + port,
		Env:  getenv("APP_ENV", "development"),
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  getenv("GOOGLE_CALLBACK_URL", "http://localhost:"+port+"/auth/google/callback"),
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "dev-secret-key-change-in-production"),
			TTL:    durationenv("JWT_TTL", 7*24*time.Hour),
		},
		Store: StoreConfig{
			Backend:     getenv("STORE_BACKEND", "memory"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			DataDir:     getenv("DATA_DIR", "data"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: getenv("KAFKA_AUDIT_TOPIC", "igamedb.audit"),
		},
		Catalog: CatalogConfig{
			RAWGAPIKey: os.Getenv("RAWG_API_KEY"),
		},
		LogFile:       os.Getenv("LOG_FILE"),
		SessionSecret: getenv("SESSION_SECRET", "dev-session-secret"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}

	// A postgres backend without a URL cannot work; fall back to memory so the
	// process keeps serving (auth routes then fail per-request, not at boot).
	if cfg.Store.Backend == "postgres" && cfg.Store.DatabaseURL == "" {
		cfg.Store.DatabaseURL = "postgres://localhost:5432/igamedb?sslmode=disable"
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationenv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
