package question

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/sanjeev23oct/moodle-augment-2/internal/adapter"
	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/metrics"
)

// Service runs the question generation pipeline against provider adapters.
type Service struct {
	logger *slog.Logger
}

// NewService creates a question generation service.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Generate assembles the prompt, performs one provider call, and parses the
// model output into questions.
//
// Output that cannot be parsed degrades to placeholder questions instead of
// failing the request, and the same applies when the provider reports an
// unexpected response shape. Credential and upstream failures surface as
// errors for the boundary layer to map.
func (s *Service) Generate(ctx context.Context, p adapter.QuestionProvider, req Request) (Response, error) {
	start := time.Now()
	provider := p.Type().String()

	s.logger.Info("generating questions",
		"provider", provider,
		"question_type", req.QuestionType.String(),
		"num_questions", req.NumQuestions,
	)

	raw, err := p.GenerateQuestions(ctx, BuildPrompt(req))
	metrics.ProviderCallDurationSeconds.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(provider, apperr.FromError(err).Kind.String()).Inc()
		if apperr.IsUnexpectedShape(err) {
			return s.degraded(p, req, start, err, ""), nil
		}
		return Response{}, err
	}
	metrics.ProviderCallsTotal.WithLabelValues(provider, "success").Inc()

	questions, parseErr := ParseQuestions(raw, req.QuestionType)
	if parseErr != nil {
		return s.degraded(p, req, start, parseErr, raw), nil
	}

	metrics.QuestionsGeneratedTotal.WithLabelValues(req.QuestionType.String()).Add(float64(len(questions)))

	s.logger.Info("question generation completed",
		"provider", provider,
		"count", len(questions),
	)

	return Response{
		Questions:      questions,
		Provider:       provider,
		Model:          p.Model(),
		ContentLength:  utf8.RuneCountInString(req.Content),
		GenerationTime: time.Since(start).Seconds(),
	}, nil
}

// degraded serves the placeholder set after a parse or shape failure. The
// failure is logged and counted so the degradation stays observable even
// though clients see a 200.
func (s *Service) degraded(p adapter.QuestionProvider, req Request, start time.Time, cause error, raw string) Response {
	provider := p.Type().String()

	attrs := []any{
		"provider", provider,
		"question_type", req.QuestionType.String(),
		"error", cause,
	}
	if raw != "" {
		attrs = append(attrs, "output_snippet", snippet(raw))
	}
	s.logger.Warn("serving placeholder questions", attrs...)
	metrics.PlaceholderFallbacksTotal.WithLabelValues(provider).Inc()

	return Response{
		Questions:      PlaceholderQuestions(req.QuestionType),
		Provider:       provider,
		Model:          p.Model(),
		ContentLength:  utf8.RuneCountInString(req.Content),
		GenerationTime: time.Since(start).Seconds(),
	}
}

// snippet bounds raw model output for log records.
func snippet(raw string) string {
	const max = 200
	runes := []rune(raw)
	if len(runes) <= max {
		return raw
	}
	return string(runes[:max]) + "..."
}
