package llm

import (
	"fmt"
	"os"
	"time"
)

// NewProvider creates an inference provider. Supported types: "ollama",
// "openai". baseURL overrides the provider's default endpoint; for openai a
// non-empty baseURL makes the API key optional (local compatible servers
// ignore it).
func NewProvider(providerType, model, baseURL string, timeout time.Duration) (Provider, error) {
	switch providerType {
	case "ollama":
		host := baseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model, timeout), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			if baseURL == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
			}
			apiKey = "local"
		}
		return NewOpenAIProvider(apiKey, model, baseURL, timeout), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
