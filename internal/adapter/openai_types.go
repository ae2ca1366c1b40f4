// Package adapter provides implementations for external AI provider integrations.
package adapter

// OpenAI-compatible request/response types.
// The OpenAI and DeepSeek adapters share this wire dialect.

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	// Model specifies which model to use (e.g., "gpt-3.5-turbo", "deepseek-chat").
	Model string `json:"model"`

	// Messages contains the conversation history.
	Messages []OpenAIMessage `json:"messages"`

	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens"`

	// Temperature controls randomness (0.0-2.0).
	Temperature float64 `json:"temperature"`
}

// OpenAIMessage represents a single message in the conversation.
type OpenAIMessage struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	// Model is the model that produced the completion.
	Model string `json:"model"`

	// Choices contains the generated completions.
	Choices []OpenAIChoice `json:"choices"`

	// Usage contains token usage statistics, passed through to clients verbatim.
	Usage map[string]any `json:"usage"`
}

// OpenAIChoice represents a single completion choice.
type OpenAIChoice struct {
	// Message contains the generated message.
	Message OpenAIMessage `json:"message"`
}
