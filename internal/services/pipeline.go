package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/metrics"
	"github.com/Lllllllleong/documentquizflow/internal/models"
	"github.com/google/uuid"
)

// NoTextNote is returned when the model path extracted no text.
const NoTextNote = "No text could be extracted; check the image quality and the model configuration."

// Pipeline outcomes recorded in metrics.
const (
	outcomeQuiz            = "quiz"
	outcomeEmptyOCR        = "empty_ocr"
	outcomeEmptyExtraction = "empty_extraction"
	outcomeValidation      = "validation_error"
	outcomeConfiguration   = "configuration_error"
	outcomeFailed          = "failed"
)

// Pipeline holds the dependencies for one document-to-quiz run:
// validate, extract, check extraction, generate quiz, assemble.
type Pipeline struct {
	store     ObjectFetcher
	generator Generator
	extractor *Extractor
	quiz      *QuizGenerator
	config    PipelineConfig

	pageCounter func([]byte) (int, error)
	closers     []func() error
}

// NewPipeline loads configuration and creates the storage, Vertex AI and
// Vision clients.
func NewPipeline(ctx context.Context) (*Pipeline, error) {
	config := LoadPipelineConfig()
	if config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, err
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		_ = storageClient.Close()
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	visionClient, err := gcp.NewVisionClient(ctx)
	if err != nil {
		_ = storageClient.Close()
		_ = vertexClient.Close()
		return nil, err
	}

	p := NewPipelineWithClients(config, storageClient, vertexClient, visionClient)
	p.closers = []func() error{storageClient.Close, vertexClient.Close}
	slog.Info("Quiz pipeline initialized.", "primaryModel", config.PrimaryModelID, "fallbackModel", config.FallbackModelID, "textModel", config.TextModelID)
	return p, nil
}

// NewPipelineWithClients wires a pipeline from already constructed clients.
func NewPipelineWithClients(config PipelineConfig, store ObjectFetcher, generator Generator, detector TextDetector) *Pipeline {
	return &Pipeline{
		store:       store,
		generator:   generator,
		extractor:   NewExtractor(generator, detector, config),
		quiz:        NewQuizGenerator(generator, config),
		config:      config,
		pageCounter: PDFPageCount,
	}
}

// Process runs the pipeline for one stored document. Success shapes,
// including the two empty-extraction results, come back as a result;
// ValidationError, ConfigurationError and unclassified provider errors come
// back as errors.
func (p *Pipeline) Process(ctx context.Context, req *models.QuizRequest) (*models.PipelineResult, error) {
	logCtx := slog.With("requestId", uuid.NewString(), "bucket", req.Bucket, "key", req.Key)
	logCtx.Info("Starting quiz pipeline.")

	result, err := p.run(ctx, logCtx, req)
	if err != nil {
		var vErr *ValidationError
		var cErr *ConfigurationError
		switch {
		case errors.As(err, &vErr):
			metrics.PipelineOutcome(outcomeValidation)
			logCtx.Warn("Request rejected.", "reason", vErr.Message)
		case errors.As(err, &cErr):
			metrics.PipelineOutcome(outcomeConfiguration)
			logCtx.Error("Pipeline is misconfigured.", "error", err)
		default:
			metrics.PipelineOutcome(outcomeFailed)
			logCtx.Error("Quiz pipeline failed.", "error", err)
		}
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logCtx *slog.Logger, req *models.QuizRequest) (*models.PipelineResult, error) {
	// --- 1. Validate input ---
	if req.Bucket == "" || req.Key == "" {
		return nil, validationErrorf("bucket and key are required")
	}
	if p.config.PrimaryModelID == "" {
		return nil, &ConfigurationError{Message: "MODEL_ID environment variable is not set"}
	}

	obj, err := p.store.Fetch(ctx, req.Bucket, req.Key)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, validationErrorf("document gs://%s/%s does not exist", req.Bucket, req.Key)
	}
	if err != nil {
		return nil, err
	}
	if len(obj.Bytes) == 0 {
		return nil, validationErrorf("could not read the document body from storage")
	}

	doc := models.DocumentRef{
		Bucket:      req.Bucket,
		Key:         req.Key,
		ContentType: obj.ContentType,
		Kind:        ClassifyMedia(req.Key, obj.ContentType),
	}
	logCtx = logCtx.With("mediaKind", doc.Kind, "bytes", len(obj.Bytes), "contentType", doc.ContentType)
	if err := p.validateDocument(logCtx, doc, obj.Bytes); err != nil {
		return nil, err
	}

	// --- 2. Extract text ---
	extraction, err := p.extractor.Extract(ctx, logCtx, doc, obj.Bytes)
	if err != nil {
		return nil, err
	}

	// --- 3. Check extraction output ---
	if extraction.Text == "" {
		if extraction.Source == SourceOCR {
			logCtx.Warn("OCR fallback found no text.")
			metrics.PipelineOutcome(outcomeEmptyOCR)
			return &models.PipelineResult{Quiz: models.EmptyQuiz{}}, nil
		}
		logCtx.Warn("No text extracted.", "source", extraction.Source)
		metrics.PipelineOutcome(outcomeEmptyExtraction)
		return &models.PipelineResult{Note: NoTextNote}, nil
	}
	logCtx.Info("Text extracted.", "source", extraction.Source, "chars", len([]rune(extraction.Text)))

	// --- 4. Generate quiz ---
	rawQuiz, err := p.quiz.Generate(ctx, logCtx, extraction.Text, extraction.QuizModelID)
	if err != nil {
		return nil, err
	}

	// --- 5. Assemble ---
	result := Assemble(extraction.Text, rawQuiz)
	metrics.PipelineOutcome(outcomeQuiz)
	logCtx.Info("Quiz pipeline complete.", "quizModel", extraction.QuizModelID, "rawQuiz", isRawQuiz(result.Quiz))
	return result, nil
}

func (p *Pipeline) validateDocument(logCtx *slog.Logger, doc models.DocumentRef, payload []byte) error {
	switch {
	case doc.Kind == models.MediaUnsupported:
		return validationErrorf("only PDF, PNG and JPEG documents are supported")
	case doc.Kind.IsImage() && len(payload) < p.config.MinImageBytes:
		return validationErrorf("image is too small (at least %d bytes required)", p.config.MinImageBytes)
	case doc.Kind == models.MediaPDF:
		pages, err := p.pageCounter(payload)
		if err != nil {
			logCtx.Warn("Could not read PDF structure; sending it to the model as is.", "error", err)
			return nil
		}
		if p.config.MaxPDFPages > 0 && pages > p.config.MaxPDFPages {
			return validationErrorf("PDF has %d pages; at most %d are supported", pages, p.config.MaxPDFPages)
		}
		logCtx.Info("PDF inspected.", "pageCount", pages)
	}
	return nil
}

// Check sends a trivial prompt to the primary model. It never touches
// storage or the quiz template.
func (p *Pipeline) Check(ctx context.Context) *models.HealthResponse {
	id := p.config.PrimaryModelID
	if id == "" {
		return &models.HealthResponse{OK: false, ModelID: id, Error: "MODEL_ID environment variable is not set"}
	}

	reply, err := timedGenerate(ctx, p.generator, models.GenerateRequest{
		ModelID:     id,
		Blocks:      []models.ContentBlock{models.TextBlock(gcp.PingPrompt)},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		slog.Error("Health check failed.", "model", id, "error", err)
		return &models.HealthResponse{OK: false, ModelID: id, Error: err.Error()}
	}
	return &models.HealthResponse{OK: true, ModelID: id, Reply: reply}
}

// Close releases the underlying clients.
func (p *Pipeline) Close() error {
	var errs []error
	for _, c := range p.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func isRawQuiz(q models.QuizDocument) bool {
	_, raw := q.(models.RawQuizText)
	return raw
}
