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
	// openAIChatModel is the model requested for plugin chat completions.
	openAIChatModel = "gpt-3.5-turbo"

	// openAIMaxTokens bounds the chat completion length.
	openAIMaxTokens = 1000

	// openAITemperature is the sampling temperature for chat completions.
	openAITemperature = 0.7
)

// OpenAIAdapter implements ChatProvider for the OpenAI chat completions API.
type OpenAIAdapter struct {
	cfg        config.OpenAIConfig
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIAdapter creates a new OpenAIAdapter from the given credentials.
func NewOpenAIAdapter(cfg config.OpenAIConfig, opts ...Option) *OpenAIAdapter {
	o := resolveOptions(opts)

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIAdapter{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: o.httpClient,
	}
}

// Type returns the provider identifier.
func (a *OpenAIAdapter) Type() domain.ProviderType {
	return domain.ProviderOpenAI
}

// Available reports whether an API key is configured.
func (a *OpenAIAdapter) Available() bool {
	return a.cfg.Configured()
}

// ChatCompletion performs a chat completion request against the OpenAI API.
func (a *OpenAIAdapter) ChatCompletion(ctx context.Context, prompt string) (ChatResponse, error) {
	if !a.Available() {
		return ChatResponse{}, notConfigured(a.Type())
	}

	reqBody := OpenAIRequest{
		Model: openAIChatModel,
		Messages: []OpenAIMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   openAIMaxTokens,
		Temperature: openAITemperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return ChatResponse{}, apperr.Internal("Internal server error", err)
	}

	url := a.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ChatResponse{}, apperr.Internal("Internal server error", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call OpenAI API: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call OpenAI API: %v", err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return ChatResponse{}, apperr.BadGateway(fmt.Sprintf("OpenAI API error: %d", resp.StatusCode), nil)
	}

	var completion OpenAIResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return ChatResponse{}, apperr.UnexpectedShape("OpenAI API returned an unexpected response", err)
	}
	if len(completion.Choices) == 0 {
		return ChatResponse{}, apperr.UnexpectedShape("OpenAI API returned an unexpected response", nil)
	}

	model := completion.Model
	if model == "" {
		model = openAIChatModel
	}

	return ChatResponse{
		Response: completion.Choices[0].Message.Content,
		Provider: a.Type().String(),
		Model:    model,
		Usage:    completion.Usage,
	}, nil
}
