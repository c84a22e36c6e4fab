// Package cli wires configuration, adapters, and the engine together
// for the concierge commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	concierge "github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/adapters/policyfs"
	"github.com/aretw0/concierge/pkg/adapters/postgres"
	redisadapter "github.com/aretw0/concierge/pkg/adapters/redis"
)

// BuildEngine assembles an engine from configuration. The returned
// cleanup function releases backend connections and must be called on
// shutdown.
func BuildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*concierge.Engine, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	opts := []concierge.Option{
		concierge.WithLogger(logger),
		concierge.WithMetrics(concierge.NewMetrics()),
		concierge.WithAgentRetries(cfg.Engine.AgentRetries),
		concierge.WithTurnHopLimit(cfg.Engine.TurnHopLimit),
		concierge.WithLockTTL(cfg.Engine.LockTTL),
	}

	switch cfg.Store.Backend {
	case "memory":
		// The facade defaults to an in-memory store.
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanups = append(cleanups, func() { _ = client.Close() })
		store := redisadapter.NewFromClient(client, redisadapter.WithTTL(cfg.Store.TTL))
		opts = append(opts,
			concierge.WithStore(store),
			concierge.WithLocker(redisadapter.NewLocker(client, "concierge:lock:")),
		)
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	switch cfg.Travel.Backend {
	case "memory":
		opts = append(opts, concierge.WithTravelStore(SeedDemoTravel()))
	case "postgres":
		if cfg.Travel.Migrate {
			if err := postgres.RunMigrations(ctx, cfg.Travel.DSN); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Travel.DSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("postgres connect failed: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		opts = append(opts, concierge.WithTravelStore(postgres.NewStore(pool)))
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unknown travel backend %q", cfg.Travel.Backend)
	}

	if _, err := os.Stat(cfg.Policy.Dir); err == nil {
		index, err := policyfs.New(cfg.Policy.Dir, policyfs.WithLimit(cfg.Policy.Limit))
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("policy corpus failed: %w", err)
		}
		opts = append(opts, concierge.WithPolicyIndex(index))
	} else {
		logger.Warn("policy directory not found, policy lookups will return nothing", "dir", cfg.Policy.Dir)
	}

	engine, err := concierge.New(opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

// SeedDemoTravel returns an in-memory travel store loaded with sample
// flights, tickets, and hotels for local experimentation. The demo
// passenger is "demo-passenger".
func SeedDemoTravel() *memory.TravelStore {
	travel := memory.NewTravelStore()
	seedDemo(travel)
	return travel
}
