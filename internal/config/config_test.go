// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears CREDEXA_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, name := range []string{"CREDEXA_API_URL", "CREDEXA_STORE", "CREDEXA_LOG_LEVEL", "CREDEXA_IDLE_TIMEOUT"} {
		t.Setenv(name, "")
	}
	return home
}

func TestDefault(t *testing.T) {
	home := isolate(t)
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, 30*time.Second, cfg.WarningLead())
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 15*time.Second, cfg.APITimeout())
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, filepath.Join(home, ".credexa", "store.db"), cfg.Store.Path)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Session.IdleTimeoutSecs)
}

func TestLoadTOMLFillsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://bank.example.com"

[session]
idle_timeout_secs = 600
warning_secs = 60
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, time.Minute, cfg.WarningLead())
	assert.Equal(t, 15, cfg.API.TimeoutSecs)
	assert.Equal(t, "auto", cfg.UI.Theme)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions are tightened on load")
}

func TestLoadDiscoversJSON(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".credexa")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"store":{"backend":"bolt","path":"/tmp/credexa.bolt"}}`), 0600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bolt", cfg.Store.Backend)
	assert.Equal(t, "/tmp/credexa.bolt", cfg.Store.Path)
}

func TestLoadMalformed(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api\nbase_url="), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CREDEXA_API_URL", "https://staging.example.com")
	t.Setenv("CREDEXA_STORE", "memory")
	t.Setenv("CREDEXA_LOG_LEVEL", "debug")
	t.Setenv("CREDEXA_IDLE_TIMEOUT", "120")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout())
}

func TestEnvOverrideInvalidIdleTimeoutIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("CREDEXA_IDLE_TIMEOUT", "five minutes")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Session.IdleTimeoutSecs)
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, "api.base_url"},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://bank.example.com" }, "api.base_url"},
		{"timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs"},
		{"idle too short", func(c *Config) { c.Session.IdleTimeoutSecs = 5; c.Session.WarningSecs = 2 }, "session.idle_timeout_secs"},
		{"warning too long", func(c *Config) { c.Session.WarningSecs = 300 }, "session.warning_secs"},
		{"warning zero", func(c *Config) { c.Session.WarningSecs = 0 }, "session.warning_secs"},
		{"debounce", func(c *Config) { c.Session.DebounceMillis = -1 }, "session.debounce_millis"},
		{"backend", func(c *Config) { c.Store.Backend = "etcd" }, "store.backend"},
		{"store path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"secret path", func(c *Config) { c.Store.Seal = true; c.Store.SecretPath = "" }, "store.secret_path"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "expected ValidateErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.API.TimeoutSecs = -1
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.timeout_secs")
	assert.Contains(t, err.Error(), "; ui.theme")
}

func TestMemoryBackendNeedsNoPath(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.Store.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	for _, name := range []string{"config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			cfg := Default()
			cfg.Session.WarningSecs = 45
			cfg.Store.Seal = true

			require.NoError(t, Save(cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "nested", "config.toml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# credexa configuration file"))
}

func TestSaveDefaultPath(t *testing.T) {
	home := isolate(t)

	require.NoError(t, Save(Default(), ""))
	_, err := os.Stat(filepath.Join(home, ".credexa", "config.toml"))
	assert.NoError(t, err)
}

func TestGetSet(t *testing.T) {
	isolate(t)
	cfg := Default()

	v, err := cfg.Get("session.warning_secs")
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	require.NoError(t, cfg.Set("api.base_url", "https://bank.example.com"))
	require.NoError(t, cfg.Set("session.idle_timeout_secs", "900"))
	require.NoError(t, cfg.Set("store.seal", "true"))
	require.NoError(t, cfg.Set("session.debounce_millis", 250))

	assert.Equal(t, "https://bank.example.com", cfg.API.BaseURL)
	assert.Equal(t, 900, cfg.Session.IdleTimeoutSecs)
	assert.True(t, cfg.Store.Seal)
	assert.Equal(t, 250, cfg.Session.DebounceMillis)

	_, err = cfg.Get("session.nope")
	assert.Error(t, err)
	_, err = cfg.Get("session")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("session.idle_timeout_secs", "soon"))
	assert.Error(t, cfg.Set("store.seal", "maybe"))
	assert.Error(t, cfg.Set("api.base_url", 42))
	assert.Error(t, cfg.Set("version.minor", "1"))
}

func TestKeys(t *testing.T) {
	keys := Keys()

	assert.Equal(t, "version", keys[0])
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "session.idle_timeout_secs")
	assert.Contains(t, keys, "store.secret_path")
	assert.Contains(t, keys, "log.path")

	cfg := Default()
	for _, key := range keys {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}
