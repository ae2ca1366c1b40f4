package question

import "fmt"

// typeInstructions maps each question type to its prompt directive.
var typeInstructions = map[Type]string{
	TypeMCQ:          "Generate multiple choice questions with 4 options (A, B, C, D) and indicate the correct answer.",
	TypeShortAnswer:  "Generate short answer questions that require brief, specific responses.",
	TypeFillInBlanks: "Generate fill-in-the-blank questions with clear blanks and specific answers.",
}

// promptTemplate is the generation prompt sent to every provider. The JSON
// skeleton keeps model output parseable; changing it breaks the parser's
// expectations downstream.
const promptTemplate = `
Based on the following content, generate %d %s difficulty %s questions.

%s

Content:
%s

Please format your response as a JSON array with the following structure:
[
  {
    "question_id": "q1",
    "question_type": "%s",
    "question_text": "Your question here",
    "correct_answer": "The correct answer",
    "options": [
      {"option_id": "A", "text": "Option A"},
      {"option_id": "B", "text": "Option B"},
      {"option_id": "C", "text": "Option C"},
      {"option_id": "D", "text": "Option D"}
    ],
    "explanation": "Brief explanation of the answer"
  }
]

For non-MCQ questions, omit the "options" field.
Ensure all questions are relevant to the content and at %s difficulty level.
`

// BuildPrompt renders the generation prompt for the given request.
func BuildPrompt(req Request) string {
	return fmt.Sprintf(promptTemplate,
		req.NumQuestions,
		req.Difficulty,
		req.QuestionType,
		typeInstructions[req.QuestionType],
		req.Content,
		req.QuestionType,
		req.Difficulty,
	)
}
