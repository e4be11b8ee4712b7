package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger configures the application logger from cfg. The returned closer
// releases the log file, if any.
func NewLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile == "" {
		return logging.New(level), nopCloser{}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.New(level, f), f, nil
}

// NewStore builds the result store selected by cfg.Store, encrypting
// results when cfg.EncryptionKey is set. A nil store means results are not
// persisted.
func NewStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.ResultStore, io.Closer, error) {
	store, closer, err := newBaseStore(ctx, cfg, logger)
	if err != nil || store == nil || cfg.EncryptionKey == "" {
		return store, closer, err
	}

	enc := middleware.EncryptionConfig{}
	if enc.ActiveKey, err = config.DecodeKey(cfg.EncryptionKey); err != nil {
		closer.Close()
		return nil, nil, err
	}
	for _, k := range cfg.FallbackKeys {
		key, err := config.DecodeKey(k)
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return middleware.Chain(store, middleware.NewEncryptionMiddleware(enc)), closer, nil
}

func newBaseStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.ResultStore, io.Closer, error) {
	switch cfg.Store {
	case "", config.StoreNone:
		return nil, nopCloser{}, nil
	case config.StoreMemory:
		return memory.NewStore(), nopCloser{}, nil
	case config.StoreFile:
		return file.NewStore(cfg.RunDir), nopCloser{}, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis at %s unreachable: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Connected to redis", "addr", cfg.Redis.Addr)
		return store, store, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("Opened sqlite store", "path", cfg.SQLitePath)
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// NewEngine initializes a turing engine with standard CLI conventions.
func NewEngine(cfg config.Config, logger *slog.Logger, store ports.ResultStore, hooks ...domain.LifecycleHooks) *turing.Engine {
	opts := []turing.Option{
		turing.WithLogger(logger),
		turing.WithMaxSteps(cfg.MaxSteps),
		turing.WithBlank(cfg.BlankSymbol()),
	}
	// Debug mode traces every lifecycle event.
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, turing.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	for _, h := range hooks {
		opts = append(opts, turing.WithLifecycleHooks(h))
	}
	if store != nil {
		opts = append(opts, turing.WithStore(store))
	}
	return turing.New(opts...)
}
