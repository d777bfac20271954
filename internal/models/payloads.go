package models

import "encoding/json"

// These structs define the JSON payloads of the HTTP functions.

// QuizRequest is the input of the quiz-generator function.
// Action "check" selects the health check; otherwise Bucket and Key are used.
type QuizRequest struct {
	Action string `json:"action,omitempty"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ActionCheck is the request action that runs the model health check.
const ActionCheck = "check"

// PipelineResult is the success body of the quiz-generator function.
// When Quiz is nil the extraction produced nothing and Note explains why.
type PipelineResult struct {
	ExtractedPreview string
	Quiz             QuizDocument
	Note             string
}

type quizResponse struct {
	ExtractedPreview string       `json:"extractedPreview"`
	Quiz             QuizDocument `json:"quiz"`
}

type emptyExtractionResponse struct {
	Extracted string `json:"extracted"`
	Note      string `json:"note"`
}

func (r PipelineResult) MarshalJSON() ([]byte, error) {
	if r.Quiz == nil {
		return json.Marshal(emptyExtractionResponse{Extracted: "", Note: r.Note})
	}
	return json.Marshal(quizResponse{ExtractedPreview: r.ExtractedPreview, Quiz: r.Quiz})
}

// HealthResponse is the output of the health check action.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	ModelID string `json:"modelId"`
	Reply   string `json:"reply,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PresignRequest is the input for the presigner function.
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// PresignResponse is the output of the presigner function.
type PresignResponse struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
}

// GCSEvent is the payload of a storage object finalize event.
type GCSEvent struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}
