// Package config provides hierarchical configuration loading for the
// concierge service. Precedence: defaults < YAML file < environment
// variables.
package config

import "time"

// Config holds all runtime configuration for the concierge service.
type Config struct {
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Redis   Redis   `yaml:"redis"`
	Travel  Travel  `yaml:"travel"`
	Policy  Policy  `yaml:"policy"`
	Engine  Engine  `yaml:"engine"`
	Logging Logging `yaml:"logging"`
}

// Server holds HTTP server configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Store selects and configures the session checkpoint store.
type Store struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`
	// TTL is the session retention period; zero keeps sessions forever.
	TTL time.Duration `yaml:"ttl"`
}

// Redis holds connection details for the redis checkpoint store and
// distributed locker.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Travel selects and configures the travel inventory backend.
type Travel struct {
	// Backend is "memory" (seeded demo data) or "postgres".
	Backend string `yaml:"backend"`
	// DSN is the PostgreSQL connection string.
	DSN string `yaml:"dsn"`
	// Migrate runs pending migrations on startup.
	Migrate bool `yaml:"migrate"`
}

// Policy configures the policy document corpus.
type Policy struct {
	Dir   string `yaml:"dir"`
	Limit int    `yaml:"limit"`
}

// Engine holds orchestration tunables.
type Engine struct {
	AgentRetries int           `yaml:"agent_retries"`
	TurnHopLimit int           `yaml:"turn_hop_limit"`
	LockTTL      time.Duration `yaml:"lock_ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: Store{
			Backend: "memory",
		},
		Redis: Redis{
			Addr: "localhost:6379",
		},
		Travel: Travel{
			Backend: "memory",
		},
		Policy: Policy{
			Dir:   "policies",
			Limit: 2,
		},
		Engine: Engine{
			AgentRetries: 2,
			TurnHopLimit: 16,
			LockTTL:      30 * time.Second,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}
