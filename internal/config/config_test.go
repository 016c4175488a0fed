package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want %q", cfg.GRPCAddr, ":8080")
	}
	if cfg.JWTIssuer != "credential-dashboard" {
		t.Errorf("JWTIssuer = %q", cfg.JWTIssuer)
	}
	if cfg.JWTAudience != "credential-dashboard-api" {
		t.Errorf("JWTAudience = %q", cfg.JWTAudience)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.NotifyKafkaTopic != "credential-lifecycle-events" {
		t.Errorf("NotifyKafkaTopic = %q", cfg.NotifyKafkaTopic)
	}
	if cfg.KafkaGroupID != "credential-notifier" {
		t.Errorf("KafkaGroupID = %q", cfg.KafkaGroupID)
	}
	if cfg.AdminEmail != "admin@company.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
	if cfg.DispatchQueueSize != 256 || cfg.DispatchWorkers != 4 || cfg.NotifyMaxAttempts != 5 {
		t.Errorf("dispatch = %d/%d/%d, want 256/4/5", cfg.DispatchQueueSize, cfg.DispatchWorkers, cfg.NotifyMaxAttempts)
	}
	if cfg.DatabaseURL != "" || cfg.AuthEnabled() {
		t.Error("database and auth should be off by default")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("JWT_ISSUER", "custom-issuer")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("DATABASE_URL", "postgres://localhost/creds")
	t.Setenv("DISPATCH_WORKERS", "8")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9090" || cfg.JWTIssuer != "custom-issuer" || cfg.BcryptCost != 10 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://localhost/creds" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.DispatchWorkers != 8 {
		t.Errorf("DispatchWorkers = %d", cfg.DispatchWorkers)
	}
	if !cfg.OTelInsecure {
		t.Error("OTelInsecure should be true")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bcrypt too low", map[string]string{"BCRYPT_COST": "3"}},
		{"bcrypt too high", map[string]string{"BCRYPT_COST": "32"}},
		{"only private key", map[string]string{"JWT_PRIVATE_KEY": "x"}},
		{"production without keys", map[string]string{"APP_ENV": "production"}},
		{"zero queue", map[string]string{"DISPATCH_QUEUE_SIZE": "0"}},
		{"negative workers", map[string]string{"DISPATCH_WORKERS": "-1"}},
		{"zero attempts", map[string]string{"NOTIFY_MAX_ATTEMPTS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestAccessTTL(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"", 15 * time.Minute},
		{"nonsense", 15 * time.Minute},
		{"-5m", 15 * time.Minute},
	}
	for _, tt := range tests {
		c := &Config{JWTAccessTTL: tt.raw}
		if got := c.AccessTTL(); got != tt.want {
			t.Errorf("AccessTTL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestKafkaBrokersList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"localhost:9092", []string{"localhost:9092"}},
		{" a:1 , ,b:2,", []string{"a:1", "b:2"}},
	}
	for _, tt := range tests {
		c := &Config{KafkaBrokers: tt.raw}
		got := c.KafkaBrokersList()
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("KafkaBrokersList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
	var nilCfg *Config
	if nilCfg.KafkaBrokersList() != nil {
		t.Error("nil config should return nil")
	}
}
