package services

import (
	"context"
	"log/slog"

	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/metrics"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// QuizGenerator asks a text model for a JSON quiz over extracted text.
type QuizGenerator struct {
	generator Generator
	config    PipelineConfig
}

func NewQuizGenerator(generator Generator, config PipelineConfig) *QuizGenerator {
	return &QuizGenerator{generator: generator, config: config}
}

// BuildQuizPrompt appends the extracted text to the quiz template.
func BuildQuizPrompt(extracted string) string {
	return gcp.QuizUserPrompt + extracted
}

// Generate returns the raw model output. An empty modelID selects the primary
// model. Only an inference-profile failure is retried, once, on the fallback
// model, and never when modelID already is the fallback.
func (g *QuizGenerator) Generate(ctx context.Context, logCtx *slog.Logger, extracted, modelID string) (string, error) {
	if modelID == "" {
		modelID = g.config.PrimaryModelID
	}
	req := models.GenerateRequest{
		ModelID:     modelID,
		Blocks:      []models.ContentBlock{models.TextBlock(BuildQuizPrompt(extracted))},
		MaxTokens:   g.config.QuizMaxTokens,
		Temperature: g.config.QuizTemperature,
	}

	out, err := timedGenerate(ctx, g.generator, req)
	if err == nil {
		return out, nil
	}

	fallback := g.config.FallbackModelID
	if ClassifyFailure(err) != FailureInferenceProfileRequired || fallback == "" || modelID == fallback {
		logCtx.Error("Quiz generation call failed.", "model", modelID, "error", err)
		return "", err
	}

	logCtx.Warn("Quiz generation needs an inference profile, retrying with fallback model.", "model", modelID, "fallbackModel", fallback)
	metrics.FallbackTaken(string(FailureInferenceProfileRequired), "quiz_fallback_model")
	req.ModelID = fallback
	out, err = timedGenerate(ctx, g.generator, req)
	if err != nil {
		logCtx.Error("Quiz generation failed on fallback model.", "model", fallback, "error", err)
		return "", err
	}
	return out, nil
}
