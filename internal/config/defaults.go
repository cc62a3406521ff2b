package config

import (
	"os"
	"path/filepath"
)

// DefaultExcludes are vault folders never treated as part of the taxonomy.
// These sit inside the vault root but hold logs, templates, and tool state
// rather than domain/section/subject directories.
var DefaultExcludes = []string{
	"_inbox_log",
	"_attachments",
	"Templates",
	"99_*",
}

// defaultModels maps each provider to a sensible local default model.
var defaultModels = map[ProviderType]string{
	ProviderOllama: "llama3.2:latest",
	ProviderOpenAI: "gpt-4o-mini",
}

// DefaultConfig returns a Config with sensible defaults. Paths are rooted in
// the user's home directory when it can be resolved.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		VaultPath:      filepath.Join(home, "PARA"),
		InboxDir:       filepath.Join(home, "PARA", "_inbox"),
		StateDir:       filepath.Join(home, ".parakeep"),
		StateBackend:   StateBackendJSON,
		Provider:       ProviderOllama,
		Model:          defaultModels[ProviderOllama],
		OllamaHost:     "http://localhost:11434",
		TimeoutSeconds: 60,
		CacheTTLHours:  6,
		RetentionDays:  30,
		Exclude:        DefaultExcludes,
		Defaults: DefaultsConfig{
			Domain:   "Personal",
			Section:  "3_Resources",
			Subject:  "general",
			Category: "reference",
		},
		Server: ServerConfig{
			Port: 8893,
		},
	}
}

// DefaultModel returns the default model for the given provider.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOllama]
}
