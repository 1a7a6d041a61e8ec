package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codetrain/internal/session"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, session.DefaultConfig(), cfg.Session)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CODETRAIN_CYCLES", "10")
	t.Setenv("CODETRAIN_MAX_HINTS", "1")
	t.Setenv("CODETRAIN_MAX_REGENERATIONS", "5")
	t.Setenv("CODETRAIN_BKT_PL0", "0.3")
	t.Setenv("CODETRAIN_HIGH_THRESHOLD", "0.85")
	t.Setenv("CODETRAIN_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CODETRAIN_CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("CODETRAIN_SKILLS", "lists,dicts")
	t.Setenv("CODETRAIN_SESSION_IDLE_TIMEOUT", "5m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Session.Cycles)
	assert.Equal(t, 1, cfg.Session.MaxHints)
	assert.Equal(t, 5, cfg.Session.MaxRegenerations)
	assert.Equal(t, 0.3, cfg.Params().PL0)
	assert.Equal(t, 0.85, cfg.Session.High)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"lists", "dicts"}, cfg.Session.Universe)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)
}

func TestFromEnv_ReportsEveryMalformedValue(t *testing.T) {
	t.Setenv("CODETRAIN_CYCLES", "six")
	t.Setenv("CODETRAIN_BKT_PS", "high")
	t.Setenv("CODETRAIN_SESSION_IDLE_TIMEOUT", "30")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODETRAIN_CYCLES")
	assert.Contains(t, err.Error(), "CODETRAIN_BKT_PS")
	assert.Contains(t, err.Error(), "CODETRAIN_SESSION_IDLE_TIMEOUT")
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("CODETRAIN_CRITICAL_THRESHOLD", "0.95")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CODETRAIN_CYCLES=4\nCODETRAIN_ADDR=:9999\n"), 0o644))

	t.Setenv("CODETRAIN_ADDR", ":7000")
	// Register for cleanup; the file sets it.
	t.Setenv("CODETRAIN_CYCLES", "")
	os.Unsetenv("CODETRAIN_CYCLES")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Session.Cycles)
	assert.Equal(t, ":7000", cfg.Addr, "existing variables win over the file")
}
