package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PARAKEEP_*). A missing file is not an
// error; defaults plus environment variables apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: PARAKEEP_VAULT_PATH -> vault_path, etc.
	// Underscore-delimited names map onto nested keys via the last dot group,
	// so PARAKEEP_SERVER_PORT would need the dotted form; flat keys cover the
	// common overrides.
	if err := k.Load(env.Provider("PARAKEEP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "PARAKEEP_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOllama: true,
	ProviderOpenAI: true,
}

// validBackends is the set of recognized state backend values.
var validBackends = map[StateBackend]bool{
	StateBackendJSON:   true,
	StateBackendSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.VaultPath == "" {
		return fmt.Errorf("vault_path is required")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of ollama, openai", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.StateBackend != "" && !validBackends[c.StateBackend] {
		return fmt.Errorf("invalid state_backend %q: must be one of json, sqlite", c.StateBackend)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.CacheTTLHours <= 0 {
		return fmt.Errorf("cache_ttl_hours must be positive")
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be positive")
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}
	return nil
}

// Timeout returns the inference deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the vocabulary cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Retention returns the processed-message retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
