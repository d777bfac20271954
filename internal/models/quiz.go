package models

import "encoding/json"

// QuestionKind is the question type requested from the model.
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "mcq"
	QuestionCloze          QuestionKind = "cloze"
)

// Question is one generated quiz item. Choices is only set for multiple choice.
type Question struct {
	Kind          QuestionKind `json:"type"`
	Prompt        string       `json:"question"`
	Choices       []string     `json:"choices,omitempty"`
	Answer        string       `json:"answer"`
	Explanation   string       `json:"explanation"`
	SourceExcerpt string       `json:"sourceText"`
}

// QuizDocument is the quiz part of a pipeline result. It is one of
// ParsedQuiz, RawQuizText or EmptyQuiz; callers switch on the concrete type.
type QuizDocument interface {
	quizDocument()
}

// ParsedQuiz is model output that decoded as {"questions": [...]}.
// It marshals back to the exact JSON the model produced.
type ParsedQuiz struct {
	Questions []Question
	raw       json.RawMessage
}

// NewParsedQuiz keeps the decoded questions together with the source JSON.
func NewParsedQuiz(questions []Question, raw []byte) ParsedQuiz {
	return ParsedQuiz{Questions: questions, raw: json.RawMessage(raw)}
}

func (q ParsedQuiz) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	return json.Marshal(struct {
		Questions []Question `json:"questions"`
	}{Questions: q.Questions})
}

// RawQuizText is model output that could not be decoded as a quiz.
type RawQuizText string

// EmptyQuiz is returned when OCR found no text; it marshals as [].
type EmptyQuiz struct{}

func (EmptyQuiz) MarshalJSON() ([]byte, error) {
	return []byte("[]"), nil
}

func (ParsedQuiz) quizDocument()  {}
func (RawQuizText) quizDocument() {}
func (EmptyQuiz) quizDocument()   {}
