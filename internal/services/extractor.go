package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/metrics"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// Extraction sources.
const (
	SourcePrimaryModel  = "primary_model"
	SourceFallbackModel = "fallback_model"
	SourceOCR           = "ocr"
)

// Provider labels used for metrics.
const (
	providerVertex = "vertex"
	providerVision = "vision"
)

// Extraction is the text recovered from a document plus the model identity
// the quiz stage must use next.
type Extraction struct {
	Text   string
	Source string
	// QuizModelID is the model the quiz stage should call. The OCR path
	// pins the text-only model; model paths hand on the model that worked.
	QuizModelID string
}

// Extractor turns document bytes into text with the primary model, falling
// back per failure class to the fallback model or the OCR service.
type Extractor struct {
	generator Generator
	detector  TextDetector
	config    PipelineConfig
}

func NewExtractor(generator Generator, detector TextDetector, config PipelineConfig) *Extractor {
	return &Extractor{generator: generator, detector: detector, config: config}
}

// Extract never mutates payload; every attempt reads the same bytes.
// Empty text is a successful result, not an error.
func (e *Extractor) Extract(ctx context.Context, logCtx *slog.Logger, doc models.DocumentRef, payload []byte) (*Extraction, error) {
	req := e.buildRequest(e.config.PrimaryModelID, doc, payload)
	text, err := timedGenerate(ctx, e.generator, req)
	if err == nil {
		return &Extraction{Text: text, Source: SourcePrimaryModel, QuizModelID: req.ModelID}, nil
	}

	class := ClassifyFailure(err)
	logCtx.Warn("Primary extraction call failed.", "model", req.ModelID, "failureClass", class, "error", err)

	switch class {
	case FailureInferenceProfileRequired:
		if e.config.FallbackModelID == "" {
			return nil, err
		}
		metrics.FallbackTaken(string(class), SourceFallbackModel)
		req.ModelID = e.config.FallbackModelID
		text, err := timedGenerate(ctx, e.generator, req)
		if err != nil {
			logCtx.Error("Fallback extraction call failed.", "model", req.ModelID, "error", err)
			return nil, err
		}
		logCtx.Info("Extracted text with fallback model.", "model", req.ModelID, "chars", len([]rune(text)))
		return &Extraction{Text: text, Source: SourceFallbackModel, QuizModelID: req.ModelID}, nil

	case FailureMarketplaceAccessDenied:
		if !doc.Kind.IsImage() {
			metrics.FallbackTaken(string(class), "rejected")
			return nil, validationErrorf("OCR fallback is not available for PDF documents; please try an image")
		}
		metrics.FallbackTaken(string(class), SourceOCR)
		text, err := e.detectText(ctx, payload)
		if err != nil {
			logCtx.Error("OCR fallback failed.", "error", err)
			return nil, err
		}
		logCtx.Info("Extracted text with OCR fallback.", "chars", len([]rune(text)), "quizModel", e.config.TextModelID)
		return &Extraction{Text: text, Source: SourceOCR, QuizModelID: e.config.TextModelID}, nil

	case FailureUnsupportedImageContent:
		metrics.FallbackTaken(string(class), "rejected")
		return nil, validationErrorf("the model could not process the image; check its resolution and format")

	default:
		return nil, err
	}
}

// buildRequest puts the instruction first and the document block second.
func (e *Extractor) buildRequest(modelID string, doc models.DocumentRef, payload []byte) models.GenerateRequest {
	block := models.ContentBlock{Kind: models.BlockImage, Format: string(doc.Kind), Bytes: payload}
	if doc.Kind == models.MediaPDF {
		block = models.ContentBlock{Kind: models.BlockDocument, Format: string(models.MediaPDF), Name: doc.FileName(), Bytes: payload}
	}
	return models.GenerateRequest{
		ModelID:     modelID,
		Blocks:      []models.ContentBlock{models.TextBlock(gcp.ExtractionUserPrompt), block},
		MaxTokens:   e.config.ExtractMaxTokens,
		Temperature: 0,
	}
}

func (e *Extractor) detectText(ctx context.Context, payload []byte) (string, error) {
	start := time.Now()
	lines, err := e.detector.DetectLines(ctx, payload)
	metrics.ObserveProviderCall(providerVision, "text_detection", time.Since(start), err)
	if err != nil {
		return "", err
	}

	var kept []string
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), nil
}

func timedGenerate(ctx context.Context, g Generator, req models.GenerateRequest) (string, error) {
	start := time.Now()
	out, err := g.Generate(ctx, req)
	metrics.ObserveProviderCall(providerVertex, req.ModelID, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
