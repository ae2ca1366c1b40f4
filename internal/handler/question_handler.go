package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/document"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/question"
)

// QuestionHandler serves question generation requests from uploaded
// documents or inline text.
type QuestionHandler struct {
	providers   map[domain.ProviderType]adapter.QuestionProvider
	service     *question.Service
	maxFileSize int64
	logger      *slog.Logger
}

// NewQuestionHandler creates a QuestionHandler over the given provider set.
func NewQuestionHandler(
	providers map[domain.ProviderType]adapter.QuestionProvider,
	service *question.Service,
	maxFileSize int64,
	logger *slog.Logger,
) *QuestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionHandler{
		providers:   providers,
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleGenerateQuestions handles POST /generate-questions/:provider
// (multipart form). Exactly one of the file and text_content fields must be
// supplied.
func (h *QuestionHandler) HandleGenerateQuestions(c *gin.Context) {
	providerType, provider, ok := h.resolveProvider(c)
	if !ok {
		return
	}

	text := strings.TrimSpace(c.PostForm("text_content"))
	fileHeader, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && fileHeader != nil

	switch {
	case !hasFile && text == "":
		writeError(c, apperr.Validation("Either a document file or text content must be provided"))
		return
	case hasFile && text != "":
		writeError(c, apperr.Validation("Please provide either a document file or text content, not both"))
		return
	}

	var content string
	if hasFile {
		h.logger.Info("processing uploaded document",
			slog.String("provider", providerType.String()),
			slog.String("filename", fileHeader.Filename),
			slog.Int64("size", fileHeader.Size),
		)

		extracted, err := h.readDocument(fileHeader)
		if err != nil {
			writeError(c, err)
			return
		}
		content = extracted
	} else {
		switch n := utf8.RuneCountInString(text); {
		case n < question.MinContentLength:
			writeError(c, apperr.Validation(fmt.Sprintf("Text content must be at least %d characters long", question.MinContentLength)))
			return
		case n > question.MaxContentLength:
			writeError(c, apperr.Validation(fmt.Sprintf("Text content must not exceed %d characters", question.MaxContentLength)))
			return
		}
		content = text
	}

	req := question.Request{
		Content:      content,
		QuestionType: question.Type(c.PostForm("question_type")),
		NumQuestions: question.DefaultNumQuestions,
		Difficulty:   c.PostForm("difficulty"),
	}
	if raw := c.PostForm("num_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, apperr.Unprocessable(fmt.Sprintf("num_questions must be an integer between %d and %d", question.MinQuestions, question.MaxQuestions)))
			return
		}
		req.NumQuestions = n
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	h.generate(c, providerType, provider, req)
}

// HandleGenerateQuestionsJSON handles POST /generate-questions/:provider/json
// (application/json), the inline-content intake with stricter schema bounds.
func (h *QuestionHandler) HandleGenerateQuestionsJSON(c *gin.Context) {
	providerType, provider, ok := h.resolveProvider(c)
	if !ok {
		return
	}

	var body struct {
		Content      string `json:"content"`
		QuestionType string `json:"question_type"`
		NumQuestions *int   `json:"num_questions"`
		Difficulty   string `json:"difficulty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apperr.Unprocessable("Invalid request body: "+err.Error()))
		return
	}

	content := strings.TrimSpace(body.Content)
	if n := utf8.RuneCountInString(content); n < question.MinContentLength || n > question.MaxContentLength {
		writeError(c, apperr.Unprocessable(fmt.Sprintf("content must be between %d and %d characters", question.MinContentLength, question.MaxContentLength)))
		return
	}

	req := question.Request{
		Content:      content,
		QuestionType: question.Type(body.QuestionType),
		NumQuestions: question.DefaultNumQuestions,
		Difficulty:   body.Difficulty,
	}
	if body.NumQuestions != nil {
		req.NumQuestions = *body.NumQuestions
	}
	if err := req.Validate(); err != nil {
		writeError(c, err)
		return
	}

	h.generate(c, providerType, provider, req)
}

// resolveProvider maps the :provider path segment to a question provider.
// Unknown names and chat-only providers both answer 404.
func (h *QuestionHandler) resolveProvider(c *gin.Context) (domain.ProviderType, adapter.QuestionProvider, bool) {
	providerType, err := domain.ParseProviderType(c.Param("provider"))
	if err != nil {
		writeError(c, apperr.NotFound("Not Found"))
		return "", nil, false
	}

	provider, ok := h.providers[providerType]
	if !ok {
		writeError(c, apperr.NotFound("Not Found"))
		return "", nil, false
	}

	return providerType, provider, true
}

// readDocument validates and extracts text from an uploaded document.
func (h *QuestionHandler) readDocument(fileHeader *multipart.FileHeader) (string, error) {
	if !document.Supported(fileHeader.Filename) {
		return "", apperr.Validation("Only text, markdown, and HTML files are supported")
	}
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return "", apperr.TooLarge(fmt.Sprintf("File size exceeds maximum limit of %d bytes", h.maxFileSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apperr.Validation(fmt.Sprintf("Failed to process document file: %v", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", apperr.Validation(fmt.Sprintf("Failed to process document file: %v", err))
	}

	return document.Extract(fileHeader.Filename, data)
}

// generate runs the pipeline and maps the outcome onto the response.
// Anything outside the error taxonomy is wrapped so clients see the fixed
// generation failure detail instead of internals.
func (h *QuestionHandler) generate(c *gin.Context, providerType domain.ProviderType, provider adapter.QuestionProvider, req question.Request) {
	resp, err := h.service.Generate(c.Request.Context(), provider, req)
	if err != nil {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) {
			err = apperr.Internal("Internal server error during question generation", err)
		}
		h.logger.Error("question generation failed",
			slog.String("provider", providerType.String()),
			slog.String("error", err.Error()),
		)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
