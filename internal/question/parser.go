package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// rawQuestion is the shape expected from model output, before validation.
type rawQuestion struct {
	QuestionID    string      `json:"question_id"`
	QuestionText  string      `json:"question_text"`
	CorrectAnswer string      `json:"correct_answer"`
	Options       []MCQOption `json:"options"`
	Explanation   string      `json:"explanation"`
}

// ParseQuestions extracts a question list from raw model output.
//
// Models are asked for a bare JSON array but routinely wrap it in prose or
// code fences, so the parser cuts the outermost bracketed span first. If
// standard decoding fails, the span is run through jsonrepair once and
// decoded again. Any remaining failure is returned to the caller, which
// substitutes placeholder questions.
//
// A well-formed empty array parses to an empty list; that is a valid result,
// not a parse failure.
func ParseQuestions(raw string, questionType Type) ([]Question, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in model output")
	}
	span := raw[start : end+1]

	var entries []rawQuestion
	if err := json.Unmarshal([]byte(span), &entries); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(span)
		if repairErr != nil {
			return nil, fmt.Errorf("parsing model output: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
			return nil, fmt.Errorf("parsing repaired model output: %w", err)
		}
	}

	questions := make([]Question, 0, len(entries))
	for i, entry := range entries {
		q, err := entry.toQuestion(i, questionType)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// toQuestion validates one parsed entry and normalizes it to the requested
// type. The entry's own question_type claim is ignored.
func (r rawQuestion) toQuestion(index int, questionType Type) (Question, error) {
	if r.QuestionText == "" {
		return Question{}, fmt.Errorf("question %d has no question_text", index+1)
	}

	q := Question{
		QuestionID:    r.QuestionID,
		QuestionType:  questionType,
		QuestionText:  r.QuestionText,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}

	if q.QuestionID == "" {
		q.QuestionID = fmt.Sprintf("q%d", index+1)
	}

	// Options only survive for MCQ; other types drop whatever the model added.
	if questionType == TypeMCQ {
		for _, opt := range r.Options {
			if opt.OptionID == "" || opt.Text == "" {
				return Question{}, fmt.Errorf("question %d has a malformed option", index+1)
			}
		}
		q.Options = r.Options
	}

	return q, nil
}
