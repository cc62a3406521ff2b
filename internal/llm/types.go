package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an inference request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse contains the result of an inference request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// HealthStatus reports whether the inference service is reachable and the
// configured model is available. It is produced by a lightweight probe,
// never by a full generation call.
type HealthStatus struct {
	ServerRunning  bool   `json:"server_running"`
	ModelAvailable bool   `json:"model_available"`
	Model          string `json:"model"`
	Ready          bool   `json:"ready"`
	Detail         string `json:"detail,omitempty"`
}
