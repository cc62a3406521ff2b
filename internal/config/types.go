package config

// ProviderType identifies an inference provider.
type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
)

// StateBackend selects how processing state is persisted.
type StateBackend string

const (
	StateBackendJSON   StateBackend = "json"
	StateBackendSQLite StateBackend = "sqlite"
)

// Config is the top-level parakeep configuration, corresponding to .parakeep.yml.
type Config struct {
	VaultPath    string       `yaml:"vault_path" koanf:"vault_path"`
	InboxDir     string       `yaml:"inbox_dir" koanf:"inbox_dir"`
	StateDir     string       `yaml:"state_dir" koanf:"state_dir"`
	StateBackend StateBackend `yaml:"state_backend" koanf:"state_backend"`

	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	OllamaHost     string       `yaml:"ollama_host" koanf:"ollama_host"`
	OpenAIBaseURL  string       `yaml:"openai_base_url" koanf:"openai_base_url"`
	TimeoutSeconds int          `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	RateLimitRPM   int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`

	CacheTTLHours int      `yaml:"cache_ttl_hours" koanf:"cache_ttl_hours"`
	RetentionDays int      `yaml:"retention_days" koanf:"retention_days"`
	Exclude       []string `yaml:"exclude" koanf:"exclude"`

	Defaults DefaultsConfig `yaml:"defaults" koanf:"defaults"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
}

// DefaultsConfig holds the fallback values substituted when a classification
// field fails validation against the vault vocabulary.
type DefaultsConfig struct {
	Domain   string `yaml:"domain" koanf:"domain"`
	Section  string `yaml:"section" koanf:"section"`
	Subject  string `yaml:"subject" koanf:"subject"`
	Category string `yaml:"category" koanf:"category"`
}

// ServerConfig holds local HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}
