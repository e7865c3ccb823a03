package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "docforge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "DOCFORGE_PORT")
	setString(&cfg.Server.CORSOrigin, "DOCFORGE_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimitMB, "DOCFORGE_BODY_LIMIT_MB")
	setDuration(&cfg.Server.Timeout, "DOCFORGE_SERVER_TIMEOUT")
	setBool(&cfg.Server.Development, "DOCFORGE_DEVELOPMENT")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "DOCFORGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "DOCFORGE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "DOCFORGE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "DOCFORGE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "DOCFORGE_PG_HEALTH_CHECK")

	setString(&cfg.S3.Bucket, "DOCFORGE_S3_BUCKET")
	setString(&cfg.S3.Region, "DOCFORGE_S3_REGION")
	setString(&cfg.S3.Endpoint, "DOCFORGE_S3_ENDPOINT")
	setString(&cfg.S3.AccessKey, "DOCFORGE_S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "DOCFORGE_S3_SECRET_KEY")

	setString(&cfg.NATS.URL, "NATS_URL")

	setString(&cfg.Converter.URL, "DOCFORGE_CONVERTER_URL")
	setDuration(&cfg.Converter.Timeout, "DOCFORGE_CONVERTER_TIMEOUT")
	setInt(&cfg.Converter.MaxFailures, "DOCFORGE_CONVERTER_MAX_FAILURES")
	setDuration(&cfg.Converter.OpenFor, "DOCFORGE_CONVERTER_OPEN_FOR")

	setString(&cfg.Auth.JWTSecret, "DOCFORGE_JWT_SECRET")
	setDuration(&cfg.Auth.AccessTokenExpiry, "DOCFORGE_ACCESS_TOKEN_EXPIRY")

	setString(&cfg.Crypto.MasterSecret, "DOCFORGE_MASTER_SECRET")

	setInt(&cfg.Rate.WindowLimit, "DOCFORGE_RATE_WINDOW_LIMIT")
	setDuration(&cfg.Rate.SweepInterval, "DOCFORGE_RATE_SWEEP_INTERVAL")
	setDuration(&cfg.Rate.WindowRetention, "DOCFORGE_RATE_WINDOW_RETENTION")

	setInt64(&cfg.Cache.MaxSizeMB, "DOCFORGE_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "DOCFORGE_CACHE_TTL")

	setDuration(&cfg.Retention.DocumentTTL, "DOCFORGE_DOCUMENT_TTL")
	setDuration(&cfg.Retention.SweepInterval, "DOCFORGE_RETENTION_SWEEP_INTERVAL")

	setString(&cfg.Logging.Level, "DOCFORGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "DOCFORGE_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "DOCFORGE_LOG_ASYNC")
}

// validate rejects configurations the service cannot run with.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth jwt_secret is required (DOCFORGE_JWT_SECRET)")
	}
	if len(cfg.Auth.JWTSecret) < 32 {
		return errors.New("auth jwt_secret must be at least 32 bytes")
	}
	if cfg.Crypto.MasterSecret == "" {
		return errors.New("crypto master_secret is required (DOCFORGE_MASTER_SECRET)")
	}
	if cfg.Rate.WindowLimit <= 0 {
		return errors.New("rate window_limit must be positive")
	}
	if cfg.Rate.WindowRetention <= 0 {
		return errors.New("rate window_retention must be positive")
	}
	if cfg.Retention.DocumentTTL < 0 {
		return errors.New("retention document_ttl must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
