package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	return writeConfigAs(t, "turing.yaml", content)
}

func writeConfigAs(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, byte(0), cfg.BlankSymbol())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
max_steps: 500
blank: "_"
store: redis
http:
  addr: ":9090"
redis:
  addr: "redis:6379"
  db: 2
  ttl: 1h
`)
	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, byte('_'), cfg.BlankSymbol())
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "max_steps: 500\nredis:\n  db: 2\n")
	cfg, err := load(path, envOf(map[string]string{
		"TURING_MAX_STEPS":   "42",
		"TURING_REDIS_TTL":   "30s",
		"TURING_HTTP_ADDR":   ":1234",
		"TURING_STORE":       "sqlite",
		"TURING_SQLITE_PATH": "/var/lib/turing/runs.db",
	}))
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.MaxSteps)
	assert.Equal(t, 2, cfg.Redis.DB, "untouched file values survive")
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, ":1234", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr, "defaults survive")
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/var/lib/turing/runs.db", cfg.SQLitePath)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfigAs(t, "turing.toml", `
log_level = "warn"
max_steps = 250
blank = "_"
store = "sqlite"
sqlite_path = "runs.db"

[redis]
ttl = "15m"
db = 3
`)
	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 250, cfg.MaxSteps)
	assert.Equal(t, byte('_'), cfg.BlankSymbol())
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "runs.db", cfg.SQLitePath)
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 3, cfg.Redis.DB)

	_, err = load(writeConfigAs(t, "bad.toml", "log_level = [\n"), noEnv)
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := load(writeConfig(t, ""), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"unknown key", "colour: blue\n", nil},
		{"bad yaml", "log_level: [\n", nil},
		{"wide blank", "blank: ab\n", nil},
		{"negative steps", "", map[string]string{"TURING_MAX_STEPS": "-1"}},
		{"bad number", "", map[string]string{"TURING_MAX_STEPS": "many"}},
		{"bad duration", "", map[string]string{"TURING_REDIS_TTL": "soon"}},
		{"unknown store", "store: s3\n", nil},
		{"short key", "encryption_key: c2hvcnQ=\n", nil},
		{"bad base64 fallback", "fallback_keys: [\"!!\"]\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.content), envOf(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.yaml"), noEnv)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EncryptionKey(t *testing.T) {
	key := "MDEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDE="
	cfg, err := load("", envOf(map[string]string{"TURING_ENCRYPTION_KEY": key}))
	require.NoError(t, err)

	decoded, err := DecodeKey(cfg.EncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, "01234567890123456789012345678901", string(decoded))
}
