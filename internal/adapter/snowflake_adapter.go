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
	// snowflakeModel is the Cortex model invoked by COMPLETE().
	snowflakeModel = "llama2-70b-chat"

	// snowflakeNoResponse is returned to clients when a statement succeeds
	// without producing a response column.
	snowflakeNoResponse = "No response received"
)

// SnowflakeAdapter implements ChatProvider and QuestionProvider on top of
// Snowflake Cortex. Prompts are wrapped in a SNOWFLAKE.CORTEX.COMPLETE()
// statement and submitted through the SQL statements API.
type SnowflakeAdapter struct {
	cfg        config.SnowflakeConfig
	baseURL    string
	httpClient *http.Client
}

// NewSnowflakeAdapter creates a new SnowflakeAdapter from the given credentials.
func NewSnowflakeAdapter(cfg config.SnowflakeConfig, opts ...Option) *SnowflakeAdapter {
	o := resolveOptions(opts)

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.snowflakecomputing.com", cfg.Account)
	}

	return &SnowflakeAdapter{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: o.httpClient,
	}
}

// Type returns the provider identifier.
func (a *SnowflakeAdapter) Type() domain.ProviderType {
	return domain.ProviderSnowflake
}

// Model returns the Cortex model name reported in responses.
func (a *SnowflakeAdapter) Model() string {
	return snowflakeModel
}

// Available reports whether every Snowflake credential field is configured.
func (a *SnowflakeAdapter) Available() bool {
	return a.cfg.Configured()
}

// ChatCompletion runs the prompt through Cortex COMPLETE and returns the
// canonical chat payload. A statement that succeeds without a "data" key or
// without a response column yields a fixed fallback message, not an error.
func (a *SnowflakeAdapter) ChatCompletion(ctx context.Context, prompt string) (ChatResponse, error) {
	if !a.Available() {
		return ChatResponse{}, notConfigured(a.Type())
	}

	result, err := a.executeStatement(ctx, prompt)
	if err != nil {
		return ChatResponse{}, err
	}

	response := snowflakeNoResponse
	if result.Data != nil {
		if len(result.Data) == 0 {
			return ChatResponse{}, apperr.UnexpectedShape("Snowflake Cortex API returned an unexpected response", nil)
		}
		if v, ok := result.Data[0]["response"]; ok {
			if s, isString := v.(string); isString {
				response = s
			} else {
				response = fmt.Sprint(v)
			}
		}
	}

	return ChatResponse{
		Response: response,
		Provider: a.Type().String(),
		Model:    snowflakeModel,
	}, nil
}

// GenerateQuestions runs the assembled prompt through Cortex COMPLETE and
// returns the raw completion text. Unlike chat, a missing response column is
// an unexpected-shape error here: there is nothing for the parser to work with.
func (a *SnowflakeAdapter) GenerateQuestions(ctx context.Context, prompt string) (string, error) {
	if !a.Available() {
		return "", notConfigured(a.Type())
	}

	result, err := a.executeStatement(ctx, prompt)
	if err != nil {
		return "", err
	}

	if len(result.Data) == 0 {
		return "", apperr.UnexpectedShape("Snowflake Cortex API returned an unexpected response", nil)
	}
	v, ok := result.Data[0]["response"]
	if !ok {
		return "", apperr.UnexpectedShape("Snowflake Cortex API returned an unexpected response", nil)
	}
	if s, isString := v.(string); isString {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// executeStatement submits one COMPLETE() statement through the SQL API.
func (a *SnowflakeAdapter) executeStatement(ctx context.Context, prompt string) (SnowflakeStatementResponse, error) {
	reqBody := SnowflakeStatementRequest{
		Statement: buildCortexStatement(prompt),
		Warehouse: a.cfg.Warehouse,
		Database:  a.cfg.Database,
		Schema:    a.cfg.Schema,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return SnowflakeStatementResponse{}, apperr.Internal("Internal server error", err)
	}

	url := a.baseURL + "/api/v2/statements"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SnowflakeStatementResponse{}, apperr.Internal("Internal server error", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s:%s", a.cfg.User, a.cfg.Password))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return SnowflakeStatementResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call Snowflake Cortex API: %v", err), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return SnowflakeStatementResponse{}, apperr.BadGateway(fmt.Sprintf("Failed to call Snowflake Cortex API: %v", err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return SnowflakeStatementResponse{}, apperr.BadGateway(fmt.Sprintf("Snowflake Cortex API error: %d", resp.StatusCode), nil)
	}

	var result SnowflakeStatementResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return SnowflakeStatementResponse{}, apperr.UnexpectedShape("Snowflake Cortex API returned an unexpected response", err)
	}

	return result, nil
}

// buildCortexStatement wraps the prompt in a COMPLETE() call. Single quotes
// are doubled so the prompt survives SQL string literal quoting.
func buildCortexStatement(prompt string) string {
	escaped := strings.ReplaceAll(prompt, "'", "''")
	return fmt.Sprintf("SELECT SNOWFLAKE.CORTEX.COMPLETE('%s', '%s') as response;", snowflakeModel, escaped)
}

// ============================================================================
// Snowflake API Types
// ============================================================================

// SnowflakeStatementRequest represents a SQL statements API submission.
type SnowflakeStatementRequest struct {
	Statement string `json:"statement"`
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
}

// SnowflakeStatementResponse represents a SQL statements API result.
// Data stays nil when the response carries no "data" key at all, which is
// distinct from a present-but-empty row set.
type SnowflakeStatementResponse struct {
	Data []map[string]any `json:"data"`
}
