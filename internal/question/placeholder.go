package question

import "fmt"

// placeholderCount is the fixed size of the fallback set. It does not track
// the requested count; the degraded path always serves three questions.
const placeholderCount = 3

// PlaceholderQuestions builds the fallback set served when model output
// cannot be parsed.
func PlaceholderQuestions(questionType Type) []Question {
	questions := make([]Question, 0, placeholderCount)
	for n := 1; n <= placeholderCount; n++ {
		questions = append(questions, placeholderQuestion(questionType, n))
	}
	return questions
}

func placeholderQuestion(questionType Type, n int) Question {
	q := Question{
		QuestionID:   fmt.Sprintf("q%d", n),
		QuestionType: questionType,
		Explanation:  fmt.Sprintf("This is the explanation for question %d", n),
	}

	switch questionType {
	case TypeMCQ:
		q.QuestionText = fmt.Sprintf("Sample multiple choice question %d based on the content?", n)
		q.CorrectAnswer = "A"
		q.Options = []MCQOption{
			{OptionID: "A", Text: fmt.Sprintf("Option A for question %d", n)},
			{OptionID: "B", Text: fmt.Sprintf("Option B for question %d", n)},
			{OptionID: "C", Text: fmt.Sprintf("Option C for question %d", n)},
			{OptionID: "D", Text: fmt.Sprintf("Option D for question %d", n)},
		}
	case TypeShortAnswer:
		q.QuestionText = fmt.Sprintf("Sample short answer question %d based on the content?", n)
		q.CorrectAnswer = fmt.Sprintf("Sample answer %d", n)
	default: // fill in the blanks
		q.QuestionText = "Complete this sentence from the content: The main concept is ______."
		q.CorrectAnswer = fmt.Sprintf("concept %d", n)
	}

	return q
}
