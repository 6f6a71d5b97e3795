package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFromEnvironment(t *testing.T) {
	t.Setenv(EnvAddr, "127.0.0.1:9999")
	t.Setenv(EnvServer, "http://tasks.local:9999")
	t.Setenv(EnvSeed, "false")
	t.Setenv(EnvTimeout, "3s")
	t.Setenv(EnvLogFormat, "json")

	cfg := Default()
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.Equal(t, "http://tasks.local:9999", cfg.ServerURL)
	assert.False(t, cfg.Seed)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestDefaultIgnoresBadValues(t *testing.T) {
	t.Setenv(EnvSeed, "maybe")
	t.Setenv(EnvTimeout, "soon")

	cfg := Default()
	assert.True(t, cfg.Seed)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestValidate(t *testing.T) {
	base := Config{Addr: ":8080", ServerURL: DefaultServerURL, LogLevel: "info", LogFormat: "text", Timeout: time.Second}
	require.NoError(t, base.Validate())

	bad := base
	bad.ServerURL = "not a url"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Addr = " "
	assert.Error(t, bad.Validate())

	bad = base
	bad.Timeout = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "chatty"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogFormat = "yaml"
	assert.Error(t, bad.Validate())
}
