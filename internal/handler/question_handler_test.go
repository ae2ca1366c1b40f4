package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/config"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
	"github.com/sanjeev23oct/moodle-augment-2/internal/question"
)

const testContent = "Photosynthesis converts light energy into chemical energy."

const validModelOutput = `[
  {
    "question_id": "q1",
    "question_type": "mcq",
    "question_text": "What does photosynthesis produce?",
    "options": [
      {"option_id": "A", "text": "Oxygen and glucose"},
      {"option_id": "B", "text": "Iron"},
      {"option_id": "C", "text": "Salt"},
      {"option_id": "D", "text": "Sand"}
    ],
    "correct_answer": "A",
    "explanation": "Plants convert light into chemical energy stored as glucose."
  },
  {
    "question_id": "q2",
    "question_type": "mcq",
    "question_text": "Where does photosynthesis occur?",
    "options": [
      {"option_id": "A", "text": "Mitochondria"},
      {"option_id": "B", "text": "Chloroplasts"},
      {"option_id": "C", "text": "Nucleus"},
      {"option_id": "D", "text": "Ribosomes"}
    ],
    "correct_answer": "B",
    "explanation": "Chloroplasts hold the chlorophyll that captures light."
  }
]`

// stubQuestionProvider is a canned QuestionProvider for handler tests.
type stubQuestionProvider struct {
	typ    domain.ProviderType
	raw    string
	err    error
	calls  int
	prompt string
}

func (s *stubQuestionProvider) GenerateQuestions(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.raw, nil
}

func (s *stubQuestionProvider) Type() domain.ProviderType { return s.typ }
func (s *stubQuestionProvider) Model() string             { return "deepseek-chat" }
func (s *stubQuestionProvider) Available() bool           { return true }

func newQuestionTestRouter(stub *stubQuestionProvider, maxFileSize int64) *gin.Engine {
	cfg := &config.Configuration{
		Providers: config.ProvidersConfig{
			DeepSeek: config.DeepSeekConfig{APIKey: "sk-deepseektest1234"},
		},
		Upload: config.UploadConfig{MaxFileSize: maxFileSize},
		CORS:   config.CORSConfig{Origins: "*"},
	}

	logger := discardLogger()
	providers := map[domain.ProviderType]adapter.QuestionProvider{}
	if stub != nil {
		providers[stub.typ] = stub
	}

	return NewQuestionRouter(cfg, logger, providers, question.NewService(logger))
}

// multipartBody assembles a multipart form with the given fields and an
// optional file part named "file".
func multipartBody(t *testing.T, fields map[string]string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := fw.Write(fileData); err != nil {
			t.Fatalf("writing file data: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func TestHandleGenerateQuestionsForm(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		fields      map[string]string
		fileName    string
		fileData    []byte
		stub        *stubQuestionProvider
		maxFileSize int64
		wantStatus  int
		wantDetail  string
		wantCalls   int
		validate    func(*testing.T, *stubQuestionProvider, *httptest.ResponseRecorder)
	}{
		{
			name: "text content generates questions",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "mcq",
				"num_questions": "2",
				"difficulty":    "easy",
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, stub *stubQuestionProvider, w *httptest.ResponseRecorder) {
				var resp question.Response
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if len(resp.Questions) != 2 {
					t.Fatalf("len(Questions) = %d, want 2", len(resp.Questions))
				}
				if resp.Provider != "deepseek" {
					t.Errorf("provider = %q, want deepseek", resp.Provider)
				}
				if resp.Model != "deepseek-chat" {
					t.Errorf("model = %q, want deepseek-chat", resp.Model)
				}
				if !strings.Contains(stub.prompt, testContent) {
					t.Error("prompt does not include the submitted content")
				}
				if !strings.Contains(stub.prompt, "generate 2 easy difficulty") {
					t.Errorf("prompt does not carry count and difficulty: %q", stub.prompt)
				}
			},
		},
		{
			name:       "neither file nor text provided",
			fields:     map[string]string{"question_type": "mcq"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Either a document file or text content must be provided",
			wantCalls:  0,
		},
		{
			name: "both file and text provided",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "mcq",
			},
			fileName:   "lecture.txt",
			fileData:   []byte(testContent),
			wantStatus: http.StatusBadRequest,
			wantDetail: "Please provide either a document file or text content, not both",
			wantCalls:  0,
		},
		{
			name: "text content below minimum length",
			fields: map[string]string{
				"text_content":  "too short",
				"question_type": "mcq",
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Text content must be at least 10 characters long",
			wantCalls:  0,
		},
		{
			name: "text content above maximum length",
			fields: map[string]string{
				"text_content":  strings.Repeat("a", question.MaxContentLength+1),
				"question_type": "mcq",
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Text content must not exceed 50000 characters",
			wantCalls:  0,
		},
		{
			name:       "unsupported file extension",
			fields:     map[string]string{"question_type": "mcq"},
			fileName:   "slides.pdf",
			fileData:   []byte("%PDF-1.4"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "Only text, markdown, and HTML files are supported",
			wantCalls:  0,
		},
		{
			name:        "upload above size limit",
			fields:      map[string]string{"question_type": "mcq"},
			fileName:    "notes.txt",
			fileData:    bytes.Repeat([]byte("x"), 200),
			maxFileSize: 64,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantDetail:  "File size exceeds maximum limit of 64 bytes",
			wantCalls:   0,
		},
		{
			name:       "html upload is converted before prompting",
			fields:     map[string]string{"question_type": "mcq", "num_questions": "2"},
			fileName:   "page.html",
			fileData:   []byte("<html><body><h1>Cell Biology</h1><p>The mitochondria is the powerhouse of the cell.</p></body></html>"),
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, stub *stubQuestionProvider, w *httptest.ResponseRecorder) {
				if !strings.Contains(stub.prompt, "mitochondria") {
					t.Errorf("prompt missing extracted document text: %q", stub.prompt)
				}
				if strings.Contains(stub.prompt, "<h1>") {
					t.Error("prompt still contains raw HTML markup")
				}
			},
		},
		{
			name: "invalid question type",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "essay",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "question_type must be one of: mcq, short_answer, fill_in_blanks",
			wantCalls:  0,
		},
		{
			name: "question count out of range",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "mcq",
				"num_questions": "25",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "num_questions must be between 1 and 20",
			wantCalls:  0,
		},
		{
			name: "non-integer question count",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "mcq",
				"num_questions": "five",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "num_questions must be an integer between 1 and 20",
			wantCalls:  0,
		},
		{
			name: "unparsable model output falls back to placeholders",
			fields: map[string]string{
				"text_content":  testContent,
				"question_type": "mcq",
			},
			stub: &stubQuestionProvider{
				typ: domain.ProviderDeepSeek,
				raw: "I'm sorry, I cannot generate questions from this content.",
			},
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, _ *stubQuestionProvider, w *httptest.ResponseRecorder) {
				var resp question.Response
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if len(resp.Questions) != 3 {
					t.Fatalf("len(Questions) = %d, want 3 placeholders", len(resp.Questions))
				}
				first := resp.Questions[0]
				if first.QuestionID != "q1" {
					t.Errorf("QuestionID = %q, want q1", first.QuestionID)
				}
				if !strings.Contains(first.QuestionText, "Sample multiple choice question 1") {
					t.Errorf("QuestionText = %q, want placeholder text", first.QuestionText)
				}
				if len(first.Options) != 4 {
					t.Errorf("len(Options) = %d, want 4", len(first.Options))
				}
			},
		},
		{
			name:       "unknown provider",
			url:        "/generate-questions/claude",
			fields:     map[string]string{"text_content": testContent, "question_type": "mcq"},
			wantStatus: http.StatusNotFound,
			wantDetail: "Not Found",
			wantCalls:  0,
		},
		{
			name:       "chat-only provider is not routable for questions",
			url:        "/generate-questions/openai",
			fields:     map[string]string{"text_content": testContent, "question_type": "mcq"},
			wantStatus: http.StatusNotFound,
			wantDetail: "Not Found",
			wantCalls:  0,
		},
		{
			name:   "missing credentials surface as 503",
			fields: map[string]string{"text_content": testContent, "question_type": "mcq"},
			stub: &stubQuestionProvider{
				typ: domain.ProviderDeepSeek,
				err: apperr.Unavailable("DeepSeek API key not configured"),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantDetail: "DeepSeek API key not configured",
			wantCalls:  1,
		},
		{
			name:   "upstream failure surfaces as 502",
			fields: map[string]string{"text_content": testContent, "question_type": "mcq"},
			stub: &stubQuestionProvider{
				typ: domain.ProviderDeepSeek,
				err: apperr.BadGateway("DeepSeek API error: 500", nil),
			},
			wantStatus: http.StatusBadGateway,
			wantDetail: "DeepSeek API error: 500",
			wantCalls:  1,
		},
		{
			name:   "plain provider error is wrapped as internal",
			fields: map[string]string{"text_content": testContent, "question_type": "mcq"},
			stub: &stubQuestionProvider{
				typ: domain.ProviderDeepSeek,
				err: errors.New("connection reset by peer"),
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Internal server error during question generation",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := tt.stub
			if stub == nil {
				stub = &stubQuestionProvider{typ: domain.ProviderDeepSeek, raw: validModelOutput}
			}
			maxFileSize := tt.maxFileSize
			if maxFileSize == 0 {
				maxFileSize = 10 << 20
			}
			router := newQuestionTestRouter(stub, maxFileSize)

			url := tt.url
			if url == "" {
				url = "/generate-questions/deepseek"
			}
			body, contentType := multipartBody(t, tt.fields, tt.fileName, tt.fileData)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, url, body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if stub.calls != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", stub.calls, tt.wantCalls)
			}

			if tt.wantDetail != "" {
				var envelope errorEnvelope
				if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
					t.Fatalf("decoding error envelope: %v", err)
				}
				if envelope.Error != "HTTP Error" {
					t.Errorf("error = %q, want %q", envelope.Error, "HTTP Error")
				}
				if !strings.Contains(envelope.Detail, tt.wantDetail) {
					t.Errorf("detail = %q, want it to contain %q", envelope.Detail, tt.wantDetail)
				}
			}

			if tt.validate != nil {
				tt.validate(t, stub, w)
			}
		})
	}
}

func TestHandleGenerateQuestionsJSON(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		body       string
		wantStatus int
		wantDetail string
		wantCalls  int
		validate   func(*testing.T, *stubQuestionProvider, *httptest.ResponseRecorder)
	}{
		{
			name:       "valid body generates questions",
			body:       `{"content": "` + testContent + `", "question_type": "mcq", "num_questions": 2, "difficulty": "hard"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, stub *stubQuestionProvider, w *httptest.ResponseRecorder) {
				var resp question.Response
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if len(resp.Questions) != 2 {
					t.Errorf("len(Questions) = %d, want 2", len(resp.Questions))
				}
				if !strings.Contains(stub.prompt, "generate 2 hard difficulty") {
					t.Errorf("prompt does not carry count and difficulty: %q", stub.prompt)
				}
			},
		},
		{
			name:       "count and difficulty default when omitted",
			body:       `{"content": "` + testContent + `", "question_type": "short_answer"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, stub *stubQuestionProvider, _ *httptest.ResponseRecorder) {
				if !strings.Contains(stub.prompt, "generate 5 medium difficulty") {
					t.Errorf("prompt does not carry defaults: %q", stub.prompt)
				}
			},
		},
		{
			name:       "content is trimmed before length check",
			body:       `{"content": "   valid content here    ", "question_type": "mcq"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			validate: func(t *testing.T, stub *stubQuestionProvider, _ *httptest.ResponseRecorder) {
				if !strings.Contains(stub.prompt, "\nvalid content here\n") {
					t.Errorf("prompt does not contain trimmed content: %q", stub.prompt)
				}
			},
		},
		{
			name:       "content below minimum length",
			body:       `{"content": "short", "question_type": "mcq"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "content must be between 10 and 50000 characters",
			wantCalls:  0,
		},
		{
			name: "content length is counted in runes",
			// Ten bytes but only five characters.
			body:       `{"content": "` + strings.Repeat("é", 5) + `", "question_type": "mcq"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "content must be between 10 and 50000 characters",
			wantCalls:  0,
		},
		{
			name:       "malformed JSON body",
			body:       `{"content": }`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "Invalid request body",
			wantCalls:  0,
		},
		{
			name:       "explicit zero question count is rejected",
			body:       `{"content": "` + testContent + `", "question_type": "mcq", "num_questions": 0}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "num_questions must be between 1 and 20",
			wantCalls:  0,
		},
		{
			name:       "unknown provider",
			url:        "/generate-questions/claude/json",
			body:       `{"content": "` + testContent + `", "question_type": "mcq"}`,
			wantStatus: http.StatusNotFound,
			wantDetail: "Not Found",
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubQuestionProvider{typ: domain.ProviderDeepSeek, raw: validModelOutput}
			router := newQuestionTestRouter(stub, 10<<20)

			url := tt.url
			if url == "" {
				url = "/generate-questions/deepseek/json"
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if stub.calls != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", stub.calls, tt.wantCalls)
			}

			if tt.wantDetail != "" {
				var envelope errorEnvelope
				if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
					t.Fatalf("decoding error envelope: %v", err)
				}
				if !strings.Contains(envelope.Detail, tt.wantDetail) {
					t.Errorf("detail = %q, want it to contain %q", envelope.Detail, tt.wantDetail)
				}
			}

			if tt.validate != nil {
				tt.validate(t, stub, w)
			}
		})
	}
}

func TestQuestionRouterHealth(t *testing.T) {
	router := newQuestionTestRouter(nil, 10<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Status    string          `json:"status"`
		Providers map[string]bool `json:"providers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}

	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	want := map[string]bool{"deepseek": true, "snowflake": false}
	for name, avail := range want {
		if got := body.Providers[name]; got != avail {
			t.Errorf("providers[%s] = %v, want %v", name, got, avail)
		}
	}
	if _, ok := body.Providers["openai"]; ok {
		t.Error("question health should not report chat-only providers")
	}
}
