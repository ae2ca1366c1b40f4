// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
)

const (
	// geminiChatModel is the model requested for plugin chat completions.
	geminiChatModel = "gemini-pro"

	// geminiMaxOutputTokens bounds the chat completion length.
	geminiMaxOutputTokens = 1000

	// geminiTemperature is the sampling temperature for chat completions.
	geminiTemperature = 0.7
)

// GeminiAdapter implements ChatProvider for the Google Gemini API.
type GeminiAdapter struct {
	cfg        config.GeminiConfig
	baseURL    string
	httpClient *http.Client
}

// NewGeminiAdapter creates a new GeminiAdapter from the given credentials.
func NewGeminiAdapter(cfg config.GeminiConfig, opts ...Option) *GeminiAdapter {
	o := resolveOptions(opts)

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &GeminiAdapter{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: o.httpClient,
	}
}

// Type returns the provider identifier.
func (a *GeminiAdapter) Type() domain.ProviderType {
	return domain.ProviderGemini
}

// Available reports whether an API key is configured.
func (a *GeminiAdapter) Available() bool {
	return a.cfg.Configured()
}

// ChatCompletion performs a generateContent request against the Gemini API.
func (a *GeminiAdapter) ChatCompletion(ctx context.Context, prompt string) (ChatResponse, error) {
	if !a.Available() {
		return ChatResponse{}, notConfigured(a.Type())
	}

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     geminiTemperature,
			MaxOutputTokens: geminiMaxOutputTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return ChatResponse{}, apperr.Internal("Internal server error", err)
	}

	// The key rides in the query string; Gemini does not use Authorization headers.
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", a.baseURL, geminiChatModel, a.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, apperr.Internal("Internal server error", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call Gemini API: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call Gemini API: %v", err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("Gemini API error: %d", resp.StatusCode), nil)
	}

	var generated GeminiResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return ChatResponse{}, apperr.UnexpectedShape("Gemini API returned an unexpected response", err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return ChatResponse{}, apperr.UnexpectedShape("Gemini API returned an unexpected response", nil)
	}

	return ChatResponse{
		Response: generated.Candidates[0].Content.Parts[0].Text,
		Provider: a.Type().String(),
		Model:    geminiChatModel,
		Usage:    generated.UsageMetadata,
	}, nil
}

// ============================================================================
// Gemini API Types
// ============================================================================

// GeminiRequest represents a Gemini generateContent request.
type GeminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

// GeminiContent represents a content block in Gemini format.
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of a content block.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiGenerationConfig contains generation parameters.
type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GeminiResponse represents a Gemini generateContent response.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`

	// UsageMetadata carries Gemini token accounting, passed through verbatim.
	UsageMetadata map[string]any `json:"usageMetadata"`
}

// GeminiCandidate represents a single generated candidate.
type GeminiCandidate struct {
	Content GeminiContent `json:"content"`
}
