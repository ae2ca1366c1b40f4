// Package question implements the question generation pipeline: parameter
// validation, prompt assembly, provider output parsing, and the placeholder
// fallback served when model output cannot be parsed.
package question

import (
	"fmt"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
)

// Type identifies a supported question format.
type Type string

const (
	// TypeMCQ is a multiple choice question with labeled options.
	TypeMCQ Type = "mcq"

	// TypeShortAnswer is a question answered with a brief free-text response.
	TypeShortAnswer Type = "short_answer"

	// TypeFillInBlanks is a sentence completion question.
	TypeFillInBlanks Type = "fill_in_blanks"
)

// Generation parameter bounds.
const (
	MinQuestions = 1
	MaxQuestions = 20

	// Content bounds for the JSON intake path.
	MinContentLength = 10
	MaxContentLength = 50000

	// DefaultNumQuestions is used when the request omits a count.
	DefaultNumQuestions = 5

	// DefaultDifficulty is used when the request omits a difficulty label.
	DefaultDifficulty = "medium"
)

// ParseType converts a string to a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid question type %q", s)
	}
	return t, nil
}

// IsValid reports whether the type is one of the supported formats.
func (t Type) IsValid() bool {
	switch t {
	case TypeMCQ, TypeShortAnswer, TypeFillInBlanks:
		return true
	default:
		return false
	}
}

// String returns the wire identifier of the type.
func (t Type) String() string {
	return string(t)
}

// MCQOption is one selectable answer for a multiple choice question.
type MCQOption struct {
	// OptionID is the option label (A, B, C, D).
	OptionID string `json:"option_id"`

	// Text is the option text.
	Text string `json:"text"`
}

// Question is a single generated question.
type Question struct {
	QuestionID    string      `json:"question_id"`
	QuestionType  Type        `json:"question_type"`
	QuestionText  string      `json:"question_text"`
	CorrectAnswer string      `json:"correct_answer"`
	Options       []MCQOption `json:"options,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
}

// Request carries question generation parameters after intake validation.
type Request struct {
	Content      string `json:"content"`
	QuestionType Type   `json:"question_type"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

// Validate checks the generation parameters and fills defaults. Content
// length rules differ between the form and JSON intake paths, so the
// handlers enforce those before building a Request.
func (r *Request) Validate() error {
	if !r.QuestionType.IsValid() {
		return apperr.Unprocessable("question_type must be one of: mcq, short_answer, fill_in_blanks")
	}
	if r.NumQuestions < MinQuestions || r.NumQuestions > MaxQuestions {
		return apperr.Unprocessable(fmt.Sprintf("num_questions must be between %d and %d", MinQuestions, MaxQuestions))
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	return nil
}

// Response is the payload returned by question generation endpoints.
type Response struct {
	Questions      []Question `json:"questions"`
	Provider       string     `json:"provider"`
	Model          string     `json:"model,omitempty"`
	ContentLength  int        `json:"content_length"`
	GenerationTime float64    `json:"generation_time,omitempty"`
}
