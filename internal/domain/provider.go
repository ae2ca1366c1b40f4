// Package domain contains the core business entities and value objects.
// These types are framework-agnostic and represent the heart of the application.
package domain

import "fmt"

// ProviderType identifies one of the supported AI backends.
// The set is closed: routing code switches over these constants and never
// dispatches on raw strings.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderGemini    ProviderType = "gemini"
	ProviderSnowflake ProviderType = "snowflake"
	ProviderDeepSeek  ProviderType = "deepseek"
)

// ChatProviders is the set of backends the chat service dispatches to.
var ChatProviders = []ProviderType{ProviderOpenAI, ProviderGemini, ProviderSnowflake}

// QuestionProviders is the set of backends the question service dispatches to.
var QuestionProviders = []ProviderType{ProviderDeepSeek, ProviderSnowflake}

// ParseProviderType converts a raw path segment into a ProviderType.
// Anything outside the closed set is an error.
func ParseProviderType(s string) (ProviderType, error) {
	p := ProviderType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown provider %q", s)
	}
	return p, nil
}

// IsValid reports whether the value belongs to the closed provider set.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderGemini, ProviderSnowflake, ProviderDeepSeek:
		return true
	default:
		return false
	}
}

// String returns the wire identifier for the provider.
func (p ProviderType) String() string {
	return string(p)
}

// DisplayName returns the human-readable provider name used in error details.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Gemini"
	case ProviderSnowflake:
		return "Snowflake Cortex"
	case ProviderDeepSeek:
		return "DeepSeek"
	default:
		return string(p)
	}
}
