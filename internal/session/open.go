package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/minify/internal/config"
)

// Open builds the Store for the configured backend. Empty paths default
// to files under ~/.minify.
func Open(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger) (*Store, error) {
	var jar Jar
	switch cfg.Backend {
	case config.BackendFile, "":
		path, err := defaultPath(cfg.Path, "session.json")
		if err != nil {
			return nil, err
		}
		jar = NewFileJar(path)
	case config.BackendSQLite:
		path, err := defaultPath(cfg.Path, "session.db")
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
		j, err := NewSQLiteJar(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		jar = j
	case config.BackendRedis:
		j, err := NewRedisJar(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		jar = j
	case config.BackendMemory:
		jar = NewMemoryJar()
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	logger.Debug("session store opened", "backend", cfg.Backend)
	return NewStore(jar, logger), nil
}

func defaultPath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
