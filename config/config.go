package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Booking    BookingConfig    `yaml:"booking"`
	Push       PushConfig       `yaml:"push"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	CORS       CORSConfig       `yaml:"cors"`
	Log        LogConfig        `yaml:"log"`
	Directory  DirectoryConfig  `yaml:"directory"`
	SeedPath   string           `yaml:"seed_path"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port                int     `yaml:"port"`
	RequestIPHeader     string  `yaml:"request_ip_header"`
	RateLimitPerSec     float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds     int     `yaml:"cache_ttl_seconds"`
	ShutdownTimeoutSecs int     `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// BookingConfig holds the stay and pricing rules.
type BookingConfig struct {
	MaxNights         int   `yaml:"max_nights"`
	CleaningFeeCents  int64 `yaml:"cleaning_fee_cents"`
	ServiceFeePercent int   `yaml:"service_fee_percent"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WebhookConfig describes the HTTP endpoint booking notices are posted to.
type WebhookConfig struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	HTTPProxy      string            `yaml:"http_proxy"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	Timeout        time.Duration     `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// CORSConfig holds the allowed cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// LogConfig controls application logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DirectoryConfig controls the property/host/guest lookup cache.
type DirectoryConfig struct {
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

// Load reads the configuration from the given path. Variables from a .env
// file in the working directory are loaded first, so DATABASE_DSN,
// SERVER_PORT and LOG_LEVEL may be set there.
func Load(path string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyEnv() error {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	if cfg.Server.ShutdownTimeoutSecs <= 0 {
		cfg.Server.ShutdownTimeoutSecs = 5
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Booking.MaxNights <= 0 {
		cfg.Booking.MaxNights = 28
	}
	if cfg.Booking.CleaningFeeCents <= 0 {
		cfg.Booking.CleaningFeeCents = 5000
	}
	if cfg.Booking.ServiceFeePercent <= 0 {
		cfg.Booking.ServiceFeePercent = 14
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Webhook.TimeoutSeconds <= 0 {
		cfg.Webhook.TimeoutSeconds = 10
	}
	cfg.Webhook.Timeout = time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Directory.CacheTTLSeconds <= 0 {
		cfg.Directory.CacheTTLSeconds = cfg.Server.CacheTTLSeconds
	}
}
