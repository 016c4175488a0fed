// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty runs the server on the in-memory store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"AUTO_MIGRATE"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
	JWTAudience  string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// KafkaBrokers is a comma-separated list of broker addresses. Empty disables the Kafka event sink.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// NotifyKafkaTopic carries lifecycle events from the server to the notification worker.
	NotifyKafkaTopic string `mapstructure:"NOTIFY_KAFKA_TOPIC"`
	// KafkaGroupID is the worker's consumer group.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	// LokiURL is the Grafana Loki base URL. Empty disables the Loki event sink.
	LokiURL string `mapstructure:"LOKI_URL"`

	// AdminEmail receives issue reports and offboarding completions.
	AdminEmail string `mapstructure:"ADMIN_EMAIL"`
	// AdminPassword is used by cmd/seed for the initial admin identity.
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	DispatchQueueSize int `mapstructure:"DISPATCH_QUEUE_SIZE"`
	DispatchWorkers   int `mapstructure:"DISPATCH_WORKERS"`
	// NotifyMaxAttempts bounds delivery attempts per message in the worker.
	NotifyMaxAttempts int `mapstructure:"NOTIFY_MAX_ATTEMPTS"`

	// AuthzPolicyFile is an optional Rego module replacing the built-in authorization policy.
	AuthzPolicyFile string `mapstructure:"AUTHZ_POLICY_FILE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv picks it up on Unmarshal.
	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "credential-dashboard")
	v.SetDefault("JWT_AUDIENCE", "credential-dashboard-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "credential-dashboard")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("NOTIFY_KAFKA_TOPIC", "credential-lifecycle-events")
	v.SetDefault("KAFKA_GROUP_ID", "credential-notifier")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("ADMIN_EMAIL", "admin@company.com")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("DISPATCH_QUEUE_SIZE", 256)
	v.SetDefault("DISPATCH_WORKERS", 4)
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 5)
	v.SetDefault("AUTHZ_POLICY_FILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if (c.JWTPrivateKey == "") != (c.JWTPublicKey == "") {
		return errors.New("config: JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set together")
	}
	if c.Env == "production" && c.JWTPrivateKey == "" {
		return errors.New("config: JWT keys are required when APP_ENV=production")
	}
	if c.DispatchQueueSize <= 0 || c.DispatchWorkers <= 0 {
		return errors.New("config: DISPATCH_QUEUE_SIZE and DISPATCH_WORKERS must be positive")
	}
	if c.NotifyMaxAttempts <= 0 {
		return errors.New("config: NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if strings.TrimSpace(c.AdminEmail) == "" {
		return errors.New("config: ADMIN_EMAIL must be set")
	}
	return nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// AuthEnabled reports whether JWT keys are configured.
func (c *Config) AuthEnabled() bool {
	return c.JWTPrivateKey != "" && c.JWTPublicKey != ""
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// An empty list disables the Kafka sink and the worker.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
