// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/credexa/credexa-tui/internal/logging"
	"github.com/credexa/credexa-tui/internal/util"
)

// CurrentVersion is written to new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete credexa configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	API     APIConfig     `toml:"api" json:"api"`
	Session SessionConfig `toml:"session" json:"session"`
	Store   StoreConfig   `toml:"store" json:"store"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig configures the upstream service.
type APIConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
}

// SessionConfig is the idle logout policy.
type SessionConfig struct {
	// IdleTimeoutSecs is the total inactivity allowed before logout.
	IdleTimeoutSecs int `toml:"idle_timeout_secs" json:"idle_timeout_secs"`
	// WarningSecs is the countdown shown before logout.
	WarningSecs int `toml:"warning_secs" json:"warning_secs"`
	// DebounceMillis collapses bursts of input.
	DebounceMillis int `toml:"debounce_millis" json:"debounce_millis"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Backend string `toml:"backend" json:"backend"` // sqlite, bolt, memory
	Path    string `toml:"path" json:"path"`
	// Seal encrypts the session token at rest.
	Seal       bool   `toml:"seal" json:"seal"`
	SecretPath string `toml:"secret_path" json:"secret_path"`
}

// UIConfig holds display settings.
type UIConfig struct {
	Theme string `toml:"theme" json:"theme"` // auto, dark, light
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	Path  string `toml:"path" json:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = ".credexa"
	}
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL:     "http://localhost:8080",
			TimeoutSecs: 15,
		},
		Session: SessionConfig{
			IdleTimeoutSecs: 300,
			WarningSecs:     30,
			DebounceMillis:  500,
		},
		Store: StoreConfig{
			Backend:    "sqlite",
			Path:       filepath.Join(dir, "store.db"),
			SecretPath: filepath.Join(dir, "secret"),
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(dir, "credexa.log"),
		},
	}
}

// IdleTimeout is the total inactivity allowed before logout.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutSecs) * time.Second
}

// WarningLead is the length of the logout countdown.
func (c *Config) WarningLead() time.Duration {
	return time.Duration(c.Session.WarningSecs) * time.Second
}

// Debounce is the activity debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Session.DebounceMillis) * time.Millisecond
}

// APITimeout bounds a single upstream request.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the credexa configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".credexa"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config at path, or the default TOML/JSON locations when
// path is empty. A missing file yields the defaults. Environment overrides
// are applied before validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = discover()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(cfg, path); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// discover returns the first existing default config file, or "".
func discover() string {
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		p, err := fn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFile(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
		return nil
	}
	if err := LoadTOML(cfg, path); err != nil {
		return fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs == 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.Session.IdleTimeoutSecs == 0 {
		cfg.Session.IdleTimeoutSecs = defaults.Session.IdleTimeoutSecs
	}
	if cfg.Session.WarningSecs == 0 {
		cfg.Session.WarningSecs = defaults.Session.WarningSecs
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaults.Store.Backend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaults.Store.Path
	}
	if cfg.Store.SecretPath == "" {
		cfg.Store.SecretPath = defaults.Store.SecretPath
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path (TOML unless the name ends in .json), or to the
// default TOML path when path is empty. Files are written atomically with 0600.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	if strings.HasSuffix(path, ".json") {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
	} else {
		buf.WriteString("# credexa configuration file\n")
		buf.WriteString("# Generated by credexa - edit with care\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and returns ValidateErrors listing all problems.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" {
		add("api.base_url", "invalid URL '%s'", c.API.BaseURL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("api.base_url", "scheme must be http or https, got '%s'", u.Scheme)
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		add("api.timeout_secs", "must be between 1 and 300, got %d", c.API.TimeoutSecs)
	}

	if c.Session.IdleTimeoutSecs < 10 {
		add("session.idle_timeout_secs", "must be at least 10, got %d", c.Session.IdleTimeoutSecs)
	}
	if c.Session.WarningSecs < 1 {
		add("session.warning_secs", "must be at least 1, got %d", c.Session.WarningSecs)
	} else if c.Session.WarningSecs >= c.Session.IdleTimeoutSecs {
		add("session.warning_secs", "must be less than idle_timeout_secs (%d), got %d",
			c.Session.IdleTimeoutSecs, c.Session.WarningSecs)
	}
	if c.Session.DebounceMillis < 0 || c.Session.DebounceMillis > 5000 {
		add("session.debounce_millis", "must be between 0 and 5000, got %d", c.Session.DebounceMillis)
	}

	switch strings.ToLower(c.Store.Backend) {
	case "sqlite", "bolt":
		if c.Store.Path == "" {
			add("store.path", "required for the %s backend", c.Store.Backend)
		}
	case "memory":
	default:
		add("store.backend", "invalid backend '%s', must be one of: sqlite, bolt, memory", c.Store.Backend)
	}
	if c.Store.Seal && c.Store.SecretPath == "" {
		add("store.secret_path", "required when seal is enabled")
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "%v", err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - CREDEXA_API_URL: overrides api.base_url
//   - CREDEXA_STORE: overrides store.backend
//   - CREDEXA_LOG_LEVEL: overrides log.level
//   - CREDEXA_IDLE_TIMEOUT: overrides session.idle_timeout_secs (seconds)
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CREDEXA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CREDEXA_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("CREDEXA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CREDEXA_IDLE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Session.IdleTimeoutSecs = secs
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring CREDEXA_IDLE_TIMEOUT=%q: %v\n", v, err)
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "session.warning_secs").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && field.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dot notation, in declaration order.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		name := tagName(section)
		if section.Type.Kind() != reflect.Struct {
			keys = append(keys, name)
			continue
		}
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, name+"."+tagName(section.Type.Field(j)))
		}
	}
	return keys
}

func tagName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("toml"), ","); tag != "" {
		return tag
	}
	return strings.ToLower(f.Name)
}

// String renders the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
