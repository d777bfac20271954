package services

import (
	"context"
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// Generator runs one model invocation and returns its trimmed text output.
type Generator interface {
	Generate(ctx context.Context, req models.GenerateRequest) (string, error)
}

// TextDetector is a non-generative OCR service returning line-level text.
type TextDetector interface {
	DetectLines(ctx context.Context, image []byte) ([]string, error)
}

// ObjectFetcher retrieves an object body and its declared content type.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) (*models.StoredObject, error)
}

// UploadSigner issues a URL that allows a single upload of one object.
type UploadSigner interface {
	SignUpload(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error)
}
