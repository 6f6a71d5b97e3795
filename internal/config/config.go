// Package config holds runtime settings shared by the server and the clients.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jbutlerdev/tasks/internal/logging"
)

// Environment variables consulted for flag defaults.
const (
	EnvAddr      = "TASKS_ADDR"
	EnvServer    = "TASKS_SERVER"
	EnvSeed      = "TASKS_SEED"
	EnvSeedFile  = "TASKS_SEED_FILE"
	EnvLogLevel  = "TASKS_LOG_LEVEL"
	EnvLogFormat = "TASKS_LOG_FORMAT"
	EnvTimeout   = "TASKS_TIMEOUT"
)

const (
	DefaultAddr      = ":8080"
	DefaultServerURL = "http://127.0.0.1:8080"
	DefaultTimeout   = 10 * time.Second
)

// Config holds configuration for one invocation.
type Config struct {
	// Addr is the listen address of `tasks serve`.
	Addr string

	// ServerURL is the base URL the client commands talk to.
	ServerURL string

	// Seed preloads the two fixture tasks on startup.
	Seed bool

	// SeedFile, when set, replaces the fixture tasks with the contents of a
	// JSON file. The file is never written.
	SeedFile string

	LogLevel  string
	LogFormat string

	// Timeout bounds each client request.
	Timeout time.Duration
}

// Default returns a Config populated from the environment, falling back to
// built-in defaults.
func Default() Config {
	return Config{
		Addr:      EnvOr(EnvAddr, DefaultAddr),
		ServerURL: EnvOr(EnvServer, DefaultServerURL),
		Seed:      envBool(EnvSeed, true),
		SeedFile:  os.Getenv(EnvSeedFile),
		LogLevel:  EnvOr(EnvLogLevel, "info"),
		LogFormat: EnvOr(EnvLogFormat, "text"),
		Timeout:   envDuration(EnvTimeout, DefaultTimeout),
	}
}

// Validate checks the values that can be checked without side effects.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config: addr is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid server url %q", c.ServerURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// EnvOr returns the trimmed value of key, or def when unset or blank.
func EnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
