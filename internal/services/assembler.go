package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Lllllllleong/documentquizflow/internal/metrics"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// Assemble builds the success result. A quiz that fails to decode is
// returned as raw text; it never fails the request.
func Assemble(extracted, rawQuiz string) *models.PipelineResult {
	quiz := ParseQuiz(rawQuiz)
	if _, ok := quiz.(models.RawQuizText); ok {
		metrics.ParseDegraded()
	}
	return &models.PipelineResult{
		ExtractedPreview: Preview(extracted),
		Quiz:             quiz,
	}
}

// ParseQuiz decodes {"questions": [...]} from model output, tolerating a
// surrounding markdown code fence. Only the shape is checked: any object
// with a questions array is a ParsedQuiz, and its source JSON is kept as
// is. Anything else is returned unchanged as RawQuizText.
func ParseQuiz(raw string) models.QuizDocument {
	candidate := stripCodeFence(raw)

	var envelope struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(candidate), &envelope); err != nil || envelope.Questions == nil {
		return models.RawQuizText(raw)
	}

	questions := make([]models.Question, 0, len(envelope.Questions))
	for _, item := range envelope.Questions {
		if q, ok := decodeQuestion(item); ok {
			questions = append(questions, q)
		}
	}
	return models.NewParsedQuiz(questions, []byte(candidate))
}

// decodeQuestion reads one item field by field. Values of an unexpected
// type are rendered as text instead of failing the item; non-object items
// are skipped.
func decodeQuestion(item json.RawMessage) (models.Question, bool) {
	var fields map[string]any
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		return models.Question{}, false
	}

	q := models.Question{
		Kind:          models.QuestionKind(textValue(fields["type"])),
		Prompt:        textValue(fields["question"]),
		Answer:        textValue(fields["answer"]),
		Explanation:   textValue(fields["explanation"]),
		SourceExcerpt: textValue(fields["sourceText"]),
	}
	switch c := fields["choices"].(type) {
	case []any:
		for _, v := range c {
			q.Choices = append(q.Choices, textValue(v))
		}
	case nil:
	default:
		q.Choices = []string{textValue(c)}
	}
	return q, true
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, textValue(e))
		}
		return strings.Join(parts, "\n")
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// Preview is the first PreviewLength characters of text, without a marker.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

// stripCodeFence removes a surrounding ``` fence together with whatever
// language tag follows the opening backticks.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), isFenceTagRune)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func isFenceTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
