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
	// deepSeekModel is the model requested for question generation.
	deepSeekModel = "deepseek-chat"

	// deepSeekMaxTokens bounds the generation length. Question batches run
	// long, so this is higher than chat completions use.
	deepSeekMaxTokens = 2000

	// deepSeekTemperature is the sampling temperature for question generation.
	deepSeekTemperature = 0.7

	// deepSeekSystemPrompt frames every question generation request.
	deepSeekSystemPrompt = "You are an expert educational content creator. " +
		"Generate high-quality questions based on the provided content."
)

// DeepSeekAdapter implements QuestionProvider for the DeepSeek chat API.
// DeepSeek speaks the OpenAI chat completion dialect.
type DeepSeekAdapter struct {
	cfg        config.DeepSeekConfig
	baseURL    string
	httpClient *http.Client
}

// NewDeepSeekAdapter creates a new DeepSeekAdapter from the given credentials.
func NewDeepSeekAdapter(cfg config.DeepSeekConfig, opts ...Option) *DeepSeekAdapter {
	o := resolveOptions(opts)

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &DeepSeekAdapter{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: o.httpClient,
	}
}

// Type returns the provider identifier.
func (a *DeepSeekAdapter) Type() domain.ProviderType {
	return domain.ProviderDeepSeek
}

// Model returns the upstream model name reported in responses.
func (a *DeepSeekAdapter) Model() string {
	return deepSeekModel
}

// Available reports whether an API key is configured.
func (a *DeepSeekAdapter) Available() bool {
	return a.cfg.Configured()
}

// GenerateQuestions performs a chat completion request against the DeepSeek
// API and returns the raw completion text for downstream parsing.
func (a *DeepSeekAdapter) GenerateQuestions(ctx context.Context, prompt string) (string, error) {
	if !a.Available() {
		return "", notConfigured(a.Type())
	}

	reqBody := OpenAIRequest{
		Model: deepSeekModel,
		Messages: []OpenAIMessage{
			{Role: "system", Content: deepSeekSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   deepSeekMaxTokens,
		Temperature: deepSeekTemperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.Internal("Internal server error", err)
	}

	url := a.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Internal("Internal server error", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", apperr.BadGateway(fmt.Sprintf("Failed to call DeepSeek API: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.BadGateway(fmt.Sprintf("Failed to call DeepSeek API: %v", err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperr.BadGateway(fmt.Sprintf("DeepSeek API error: %d", resp.StatusCode), nil)
	}

	var completion OpenAIResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", apperr.UnexpectedShape("DeepSeek API returned an unexpected response", err)
	}
	if len(completion.Choices) == 0 {
		return "", apperr.UnexpectedShape("DeepSeek API returned an unexpected response", nil)
	}

	return completion.Choices[0].Message.Content, nil
}
