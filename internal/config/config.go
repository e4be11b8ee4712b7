// Package config loads the settings shared by the turing commands.
//
// Values come from an optional YAML (or, by extension, TOML) file, then
// TURING_* environment variables; command-line flags are applied last by
// the caller.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TURING_"

// Config holds the process-wide settings.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	MaxSteps int    `mapstructure:"max_steps" yaml:"max_steps"`
	// Blank is the blank symbol; empty means NUL.
	Blank  string      `mapstructure:"blank" yaml:"blank"`
	Store  string      `mapstructure:"store" yaml:"store"`
	HTTP   HTTPConfig  `mapstructure:"http" yaml:"http"`
	Redis  RedisConfig `mapstructure:"redis" yaml:"redis"`
	RunDir string      `mapstructure:"run_dir" yaml:"run_dir"`
	// SQLitePath is the database file of the sqlite store.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	// EncryptionKey is a base64 AES-256 key; when set, stored results are
	// encrypted. FallbackKeys still decrypt results saved before a rotation.
	EncryptionKey string   `mapstructure:"encryption_key" yaml:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys" yaml:"fallback_keys"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store:    StoreNone,
		HTTP:     HTTPConfig{Addr: ":8080"},
		Redis:    RedisConfig{Addr: "localhost:6379"},

		SQLitePath: "turing.db",
	}
}

// env maps each recognized variable (without prefix) to its key path.
var env = map[string][]string{
	"LOG_LEVEL":      {"log_level"},
	"LOG_FILE":       {"log_file"},
	"MAX_STEPS":      {"max_steps"},
	"BLANK":          {"blank"},
	"STORE":          {"store"},
	"RUN_DIR":        {"run_dir"},
	"SQLITE_PATH":    {"sqlite_path"},
	"HTTP_ADDR":      {"http", "addr"},
	"REDIS_ADDR":     {"redis", "addr"},
	"REDIS_PASSWORD": {"redis", "password"},
	"REDIS_DB":       {"redis", "db"},
	"REDIS_PREFIX":   {"redis", "prefix"},
	"REDIS_TTL":      {"redis", "ttl"},
	"ENCRYPTION_KEY": {"encryption_key"},
}

// Load reads path (optional) and the process environment.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := unmarshal(path, data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	for name, keys := range env {
		if v, ok := lookup(EnvPrefix + name); ok {
			set(raw, keys, v)
		}
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func unmarshal(path string, data []byte, raw *map[string]any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, raw)
	default:
		return yaml.Unmarshal(data, raw)
	}
}

// Decode decodes a generic map into out, accepting strings for numbers and
// durations ("30s").
func Decode(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func set(raw map[string]any, keys []string, value string) {
	m := raw
	for _, k := range keys[:len(keys)-1] {
		child, ok := m[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[k] = child
		}
		m = child
	}
	m[keys[len(keys)-1]] = value
}

// BlankSymbol returns the blank as a byte.
func (c Config) BlankSymbol() byte {
	if c.Blank == "" {
		return 0
	}
	return c.Blank[0]
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	var errs []error
	if len(c.Blank) > 1 {
		errs = append(errs, fmt.Errorf("blank must be a single byte, got %q", c.Blank))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative"))
	}
	for _, k := range append([]string{c.EncryptionKey}, c.FallbackKeys...) {
		if k == "" {
			continue
		}
		if _, err := DecodeKey(k); err != nil {
			errs = append(errs, err)
		}
	}
	switch strings.ToLower(c.Store) {
	case "", StoreNone, StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	return errors.Join(errs...)
}

// KeySize is the decoded length of an encryption key (AES-256).
const KeySize = 32

// DecodeKey decodes a base64 encryption key and checks its length.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must decode to %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}
