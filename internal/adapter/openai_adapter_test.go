package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
)

func TestOpenAIAdapter_ChatCompletion(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantErr  func(*testing.T, error)
		validate func(*testing.T, ChatResponse)
	}{
		{
			name: "successful completion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(OpenAIResponse{
					Model: "gpt-3.5-turbo-0125",
					Choices: []OpenAIChoice{
						{Message: OpenAIMessage{Role: "assistant", Content: "Hi there!"}},
					},
					Usage: map[string]any{"prompt_tokens": float64(9), "total_tokens": float64(12)},
				})
			},
			validate: func(t *testing.T, resp ChatResponse) {
				if resp.Response != "Hi there!" {
					t.Errorf("Response = %q, want 'Hi there!'", resp.Response)
				}
				if resp.Provider != "openai" {
					t.Errorf("Provider = %q, want openai", resp.Provider)
				}
				if resp.Model != "gpt-3.5-turbo-0125" {
					t.Errorf("Model = %q, want gpt-3.5-turbo-0125", resp.Model)
				}
				if resp.Usage["total_tokens"] != float64(12) {
					t.Errorf("Usage[total_tokens] = %v, want 12", resp.Usage["total_tokens"])
				}
			},
		},
		{
			name: "missing model falls back to requested model",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(OpenAIResponse{
					Choices: []OpenAIChoice{
						{Message: OpenAIMessage{Role: "assistant", Content: "ok"}},
					},
				})
			},
			validate: func(t *testing.T, resp ChatResponse) {
				if resp.Model != "gpt-3.5-turbo" {
					t.Errorf("Model = %q, want gpt-3.5-turbo", resp.Model)
				}
				if resp.Usage != nil {
					t.Errorf("Usage = %v, want nil", resp.Usage)
				}
			},
		},
		{
			name: "upstream error status becomes bad gateway",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr: func(t *testing.T, err error) {
				if !apperr.IsBadGateway(err) {
					t.Fatalf("error = %v, want bad gateway", err)
				}
				appErr := apperr.FromError(err)
				if appErr.Status != http.StatusBadGateway {
					t.Errorf("Status = %d, want 502", appErr.Status)
				}
				if appErr.Detail != "OpenAI API error: 429" {
					t.Errorf("Detail = %q, want 'OpenAI API error: 429'", appErr.Detail)
				}
			},
		},
		{
			name: "malformed body is an unexpected shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantErr: func(t *testing.T, err error) {
				if !apperr.IsUnexpectedShape(err) {
					t.Fatalf("error = %v, want unexpected shape", err)
				}
			},
		},
		{
			name: "empty choices is an unexpected shape",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(OpenAIResponse{Model: "gpt-3.5-turbo"})
			},
			wantErr: func(t *testing.T, err error) {
				if !apperr.IsUnexpectedShape(err) {
					t.Fatalf("error = %v, want unexpected shape", err)
				}
				if apperr.FromError(err).Status != http.StatusBadGateway {
					t.Errorf("Status = %d, want 502", apperr.FromError(err).Status)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			a := NewOpenAIAdapter(
				config.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL},
				WithHTTPClient(server.Client()),
			)

			resp, err := a.ChatCompletion(context.Background(), "Hello!")
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				tt.wantErr(t, err)
				return
			}
			if err != nil {
				t.Fatalf("ChatCompletion() error = %v", err)
			}
			tt.validate(t, resp)
		})
	}
}

func TestOpenAIAdapter_RequestFormat(t *testing.T) {
	var captured OpenAIRequest
	var auth, path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(OpenAIResponse{
			Choices: []OpenAIChoice{{Message: OpenAIMessage{Role: "assistant", Content: "ok"}}},
		})
	}))
	defer server.Close()

	a := NewOpenAIAdapter(
		config.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL},
		WithHTTPClient(server.Client()),
	)

	if _, err := a.ChatCompletion(context.Background(), "What is Go?"); err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	if path != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", path)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want 'Bearer sk-test'", auth)
	}
	if captured.Model != "gpt-3.5-turbo" {
		t.Errorf("Model = %q, want gpt-3.5-turbo", captured.Model)
	}
	if captured.MaxTokens != 1000 {
		t.Errorf("MaxTokens = %d, want 1000", captured.MaxTokens)
	}
	if captured.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", captured.Temperature)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "What is Go?" {
		t.Errorf("Messages = %+v, want single user message with the prompt", captured.Messages)
	}
}

func TestOpenAIAdapter_NotConfigured(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	a := NewOpenAIAdapter(
		config.OpenAIConfig{BaseURL: server.URL},
		WithHTTPClient(server.Client()),
	)

	if a.Available() {
		t.Error("Available() = true without an API key")
	}

	_, err := a.ChatCompletion(context.Background(), "Hello!")
	if !apperr.IsUnavailable(err) {
		t.Fatalf("error = %v, want service unavailable", err)
	}

	appErr := apperr.FromError(err)
	if appErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", appErr.Status)
	}
	if appErr.Detail != "OpenAI API key not configured" {
		t.Errorf("Detail = %q, want 'OpenAI API key not configured'", appErr.Detail)
	}
	if calls != 0 {
		t.Errorf("upstream calls = %d, want 0", calls)
	}
}

func TestOpenAIAdapter_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // refuse all connections

	a := NewOpenAIAdapter(config.OpenAIConfig{APIKey: "sk-test", BaseURL: url})

	_, err := a.ChatCompletion(context.Background(), "Hello!")
	if !apperr.IsBadGateway(err) {
		t.Fatalf("error = %v, want bad gateway", err)
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %T does not wrap *apperr.Error", err)
	}
	if appErr.Err == nil {
		t.Error("transport failure should carry the underlying error")
	}
}

func TestOpenAIAdapter_Type(t *testing.T) {
	a := NewOpenAIAdapter(config.OpenAIConfig{APIKey: "sk-test", BaseURL: "https://api.openai.com/v1"})
	if a.Type().String() != "openai" {
		t.Errorf("Type() = %s, want openai", a.Type())
	}
}
