package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "memory", cfg.Travel.Backend)
	assert.Equal(t, 2, cfg.Engine.AgentRetries)
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concierge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
store:
  backend: redis
  ttl: 24h
logging:
  level: debug
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.LogLevel())
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concierge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0644))

	t.Setenv("CONCIERGE_ADDR", ":7070")
	t.Setenv("CONCIERGE_AGENT_RETRIES", "5")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Engine.AgentRetries)
}

func TestLoadFrom_Validation(t *testing.T) {
	t.Run("Bad Store Backend", func(t *testing.T) {
		t.Setenv("CONCIERGE_STORE", "tape")
		_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "store.backend")
	})

	t.Run("Postgres Needs DSN", func(t *testing.T) {
		t.Setenv("CONCIERGE_TRAVEL", "postgres")
		_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorContains(t, err, "travel.dsn")
	})
}
