package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/parakeep/parakeep/internal/classifier"
	"github.com/parakeep/parakeep/internal/config"
	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

// vaultCacheFile is the vocabulary cache, relative to the state directory.
const vaultCacheFile = "vault_cache.json"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `parakeep init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newProvider creates the inference provider from config, wrapped with a rate
// limiter when one is configured.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	baseURL := cfg.OllamaHost
	if cfg.Provider == config.ProviderOpenAI {
		baseURL = cfg.OpenAIBaseURL
	}

	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model, baseURL, cfg.Timeout())
	if err != nil {
		return nil, fmt.Errorf("creating inference provider: %w", err)
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	return provider, nil
}

// newScanner creates the vault scanner with its file-backed vocabulary cache.
func newScanner(cfg *config.Config) *vault.Scanner {
	cache := vault.NewFileCache(filepath.Join(cfg.StateDir, vaultCacheFile))
	return vault.NewScanner(cfg.VaultPath, cfg.CacheTTL(), cache, cfg.Exclude)
}

// newStore opens the configured state backend.
func newStore(cfg *config.Config) (state.Store, error) {
	store, err := state.Open(string(cfg.StateBackend), cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}
	return store, nil
}

// newClassifier builds the classifier over an already-created provider.
func newClassifier(cfg *config.Config, provider llm.Provider) *classifier.Classifier {
	return classifier.New(provider, cfg.Model, cfg.Defaults)
}
