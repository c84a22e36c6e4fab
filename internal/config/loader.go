package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "concierge.yaml"

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
	setString(&cfg.Server.Addr, "CONCIERGE_ADDR")
	setDuration(&cfg.Server.ReadTimeout, "CONCIERGE_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "CONCIERGE_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "CONCIERGE_SHUTDOWN_TIMEOUT")

	setString(&cfg.Store.Backend, "CONCIERGE_STORE")
	setDuration(&cfg.Store.TTL, "CONCIERGE_SESSION_TTL")
	setString(&cfg.Redis.Addr, "CONCIERGE_REDIS_ADDR")
	setString(&cfg.Redis.Password, "CONCIERGE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CONCIERGE_REDIS_DB")

	setString(&cfg.Travel.Backend, "CONCIERGE_TRAVEL")
	setString(&cfg.Travel.DSN, "DATABASE_URL")
	setBool(&cfg.Travel.Migrate, "CONCIERGE_MIGRATE")

	setString(&cfg.Policy.Dir, "CONCIERGE_POLICY_DIR")
	setInt(&cfg.Policy.Limit, "CONCIERGE_POLICY_LIMIT")

	setInt(&cfg.Engine.AgentRetries, "CONCIERGE_AGENT_RETRIES")
	setInt(&cfg.Engine.TurnHopLimit, "CONCIERGE_TURN_HOP_LIMIT")
	setDuration(&cfg.Engine.LockTTL, "CONCIERGE_LOCK_TTL")

	setString(&cfg.Logging.Level, "CONCIERGE_LOG_LEVEL")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("store.backend must be memory or redis, got %q", cfg.Store.Backend)
	}
	switch cfg.Travel.Backend {
	case "memory":
	case "postgres":
		if cfg.Travel.DSN == "" {
			return errors.New("travel.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("travel.backend must be memory or postgres, got %q", cfg.Travel.Backend)
	}
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.Engine.TurnHopLimit < 1 {
		return errors.New("engine.turn_hop_limit must be >= 1")
	}
	if cfg.Engine.AgentRetries < 0 {
		return errors.New("engine.agent_retries must be >= 0")
	}
	return nil
}

// LogLevel maps the configured level name onto slog.
func (l Logging) LogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
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
