package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// QuizRunner is the part of Pipeline the upload trigger needs.
type QuizRunner interface {
	Process(ctx context.Context, req *models.QuizRequest) (*models.PipelineResult, error)
}

// UploadTrigger runs the pipeline for every finalized upload and logs the
// outcome. Nothing is stored.
type UploadTrigger struct {
	runner QuizRunner
	prefix string
}

func NewUploadTrigger(runner QuizRunner, prefix string) *UploadTrigger {
	return &UploadTrigger{runner: runner, prefix: prefix}
}

// Process returns an error only for failures worth a platform retry;
// validation and configuration failures are logged and acknowledged.
func (t *UploadTrigger) Process(ctx context.Context, e models.GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	if !strings.HasPrefix(e.Name, t.prefix) || strings.HasSuffix(e.Name, "/") {
		logCtx.Info("Object is outside the upload prefix. Skipping.", "prefix", t.prefix)
		return nil
	}

	result, err := t.runner.Process(ctx, &models.QuizRequest{Bucket: e.Bucket, Key: e.Name})
	if err != nil {
		var vErr *ValidationError
		var cErr *ConfigurationError
		if errors.As(err, &vErr) || errors.As(err, &cErr) {
			logCtx.Warn("Upload not processable. Acknowledging event.", "error", err)
			return nil
		}
		return err
	}

	logCtx.Info("Upload processed.", summarize(result)...)
	return nil
}

func summarize(r *models.PipelineResult) []any {
	switch q := r.Quiz.(type) {
	case nil:
		return []any{"outcome", "no_text", "note", r.Note}
	case models.EmptyQuiz:
		return []any{"outcome", "empty_ocr"}
	case models.RawQuizText:
		return []any{"outcome", "raw_quiz", "previewChars", len([]rune(r.ExtractedPreview)), "rawChars", len([]rune(string(q)))}
	case models.ParsedQuiz:
		return []any{"outcome", "quiz", "previewChars", len([]rune(r.ExtractedPreview)), "questions", len(q.Questions)}
	default:
		return []any{"outcome", "unknown"}
	}
}
