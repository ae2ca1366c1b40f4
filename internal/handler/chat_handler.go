package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/metrics"
)

// MaxPromptLength bounds the chat prompt in characters, before trimming.
const MaxPromptLength = 10000

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatHandler dispatches chat completion requests to the matching provider
// adapter.
type ChatHandler struct {
	providers map[domain.ProviderType]adapter.ChatProvider
	logger    *slog.Logger
}

// NewChatHandler creates a ChatHandler over the given provider set.
func NewChatHandler(providers map[domain.ProviderType]adapter.ChatProvider, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{providers: providers, logger: logger}
}

// HandleChat handles POST /chat/:provider.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	providerType, err := domain.ParseProviderType(c.Param("provider"))
	if err != nil {
		writeError(c, apperr.NotFound("Not Found"))
		return
	}

	provider, ok := h.providers[providerType]
	if !ok {
		// A real provider, but not one this service dispatches to.
		writeError(c, apperr.NotFound("Not Found"))
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.Unprocessable("Invalid request body: "+err.Error()))
		return
	}

	if utf8.RuneCountInString(req.Prompt) > MaxPromptLength {
		writeError(c, apperr.Unprocessable(fmt.Sprintf("Prompt must be at most %d characters", MaxPromptLength)))
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(c, apperr.Unprocessable("Prompt cannot be empty or just whitespace"))
		return
	}

	h.logger.Info("chat completion request",
		slog.String("provider", providerType.String()),
		slog.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	start := time.Now()
	resp, err := provider.ChatCompletion(c.Request.Context(), prompt)
	metrics.ProviderCallDurationSeconds.WithLabelValues(providerType.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerType.String(), apperr.FromError(err).Kind.String()).Inc()
		h.logger.Error("chat completion failed",
			slog.String("provider", providerType.String()),
			slog.String("error", err.Error()),
		)
		writeError(c, err)
		return
	}
	metrics.ProviderCallsTotal.WithLabelValues(providerType.String(), "success").Inc()

	c.JSON(http.StatusOK, resp)
}
