package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ClientConfig holds configuration for the minify client.
type ClientConfig struct {
	APIURL      string        `yaml:"api_url"`      // Backend base URL (default "http://localhost:8080")
	LogLevel    string        `yaml:"log_level"`    // Log level: debug, info, warn, error
	LogFormat   string        `yaml:"log_format"`   // Log format: text, json, auto
	MetricsFile string        `yaml:"metrics_file"` // Prometheus textfile output, empty disables
	Session     SessionConfig `yaml:"session"`
}

// SessionConfig selects where the session (token + user) is persisted.
type SessionConfig struct {
	Backend   string `yaml:"backend"`    // file, sqlite, redis, memory
	Path      string `yaml:"path"`       // File or SQLite path (default ~/.minify/session.json or session.db)
	RedisURL  string `yaml:"redis_url"`  // redis://host:port/db
	KeyPrefix string `yaml:"key_prefix"` // Redis key prefix (default "minify:")
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIURL:    "http://localhost:8080",
		LogLevel:  "info",
		LogFormat: "text",
		Session: SessionConfig{
			Backend:   BackendFile,
			KeyPrefix: "minify:",
		},
	}
}

// Dir returns the per-user configuration directory (~/.minify).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".minify"), nil
}

// DefaultPath returns ~/.minify/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds a ClientConfig from defaults, the YAML file at path and the
// environment, in that order of precedence. A missing file is not an error;
// an empty path means DefaultPath. A .env file in the working directory is
// loaded into the environment first if present.
func Load(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}

	cfg.mergeEnv()
	return cfg, nil
}

func (c *ClientConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *ClientConfig) mergeEnv() {
	setFromEnv(&c.APIURL, "MINIFY_API_URL")
	setFromEnv(&c.LogLevel, "MINIFY_LOG_LEVEL")
	setFromEnv(&c.LogFormat, "MINIFY_LOG_FORMAT")
	setFromEnv(&c.MetricsFile, "MINIFY_METRICS_FILE")
	setFromEnv(&c.Session.Backend, "MINIFY_SESSION_BACKEND")
	setFromEnv(&c.Session.Path, "MINIFY_SESSION_PATH")
	setFromEnv(&c.Session.RedisURL, "MINIFY_REDIS_URL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the session backend is known and has what it needs.
func (c ClientConfig) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	switch c.Session.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session backend %q requires redis_url", c.Session.Backend)
		}
	default:
		return fmt.Errorf("unknown session backend %q (use file, sqlite, redis, memory)", c.Session.Backend)
	}
	return nil
}
