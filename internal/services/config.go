package services

import (
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/gcp"
)

const (
	defaultFallbackModelID = "gemini-1.5-flash-002"
	defaultTextModelID     = "gemini-1.0-pro-002"
	defaultMinImageBytes   = 2048
	defaultExtractTokens   = 300
	defaultQuizTokens      = 1200
	defaultQuizTemperature = 0.2
	defaultUploadPrefix    = "uploads/"
	defaultUploadTTL       = 15 * time.Minute

	// PreviewLength is the number of characters of extracted text returned to callers.
	PreviewLength = 400
)

// PipelineConfig holds all configuration for the quiz pipeline.
type PipelineConfig struct {
	ProjectID      string
	VertexAIRegion string

	// PrimaryModelID may be empty; requests then fail with a ConfigurationError.
	PrimaryModelID  string
	FallbackModelID string
	TextModelID     string

	MinImageBytes    int
	ExtractMaxTokens int32
	QuizMaxTokens    int32
	QuizTemperature  float32
	MaxPDFPages      int
}

// LoadPipelineConfig reads the pipeline environment. Missing values take
// their defaults; nothing here fails so a missing MODEL_ID surfaces per request.
func LoadPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ProjectID:        gcp.GetEnv("PROJECT_ID", ""),
		VertexAIRegion:   gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		PrimaryModelID:   gcp.GetEnv("MODEL_ID", ""),
		FallbackModelID:  gcp.GetEnv("FALLBACK_MODEL_ID", defaultFallbackModelID),
		TextModelID:      gcp.GetEnv("TEXT_MODEL_ID", defaultTextModelID),
		MinImageBytes:    gcp.GetEnvInt("MIN_IMAGE_BYTES", defaultMinImageBytes),
		ExtractMaxTokens: int32(gcp.GetEnvInt("EXTRACT_MAX_TOKENS", defaultExtractTokens)),
		QuizMaxTokens:    int32(gcp.GetEnvInt("QUIZ_MAX_TOKENS", defaultQuizTokens)),
		QuizTemperature:  float32(gcp.GetEnvFloat("QUIZ_TEMPERATURE", defaultQuizTemperature)),
		MaxPDFPages:      gcp.GetEnvInt("MAX_PDF_PAGES", 0),
	}
}

// PresignConfig holds configuration for the presigner service.
type PresignConfig struct {
	// Bucket may be empty; requests then fail with a ConfigurationError.
	Bucket string
	Prefix string
	TTL    time.Duration
}

// LoadPresignConfig reads the upload environment.
func LoadPresignConfig() PresignConfig {
	return PresignConfig{
		Bucket: gcp.GetEnv("UPLOAD_BUCKET", ""),
		Prefix: gcp.GetEnv("UPLOAD_PREFIX", defaultUploadPrefix),
		TTL:    gcp.GetEnvDuration("UPLOAD_URL_TTL", defaultUploadTTL),
	}
}
