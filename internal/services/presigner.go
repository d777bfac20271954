package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

const defaultUploadContentType = "application/octet-stream"

// unsafeFileNameRegex matches characters not allowed in upload object names.
var unsafeFileNameRegex = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)

// Presigner issues signed upload URLs for new documents.
type Presigner struct {
	signer UploadSigner
	config PresignConfig
	now    func() time.Time
	closer func() error
}

// NewPresigner creates a Presigner backed by a GCS client.
func NewPresigner(ctx context.Context) (*Presigner, error) {
	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return nil, err
	}
	p := NewPresignerWithSigner(LoadPresignConfig(), storageClient)
	p.closer = storageClient.Close
	return p, nil
}

func NewPresignerWithSigner(config PresignConfig, signer UploadSigner) *Presigner {
	return &Presigner{signer: signer, config: config, now: time.Now}
}

// Process signs a PUT URL for <prefix><unixMillis>_<sanitized filename>.
func (p *Presigner) Process(ctx context.Context, req *models.PresignRequest) (*models.PresignResponse, error) {
	if p.config.Bucket == "" {
		return nil, &ConfigurationError{Message: "UPLOAD_BUCKET environment variable is not set"}
	}
	if req.Filename == "" {
		return nil, validationErrorf("filename is required")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultUploadContentType
	}
	key := fmt.Sprintf("%s%d_%s", p.config.Prefix, p.now().UnixMilli(), SanitizeFileName(req.Filename))

	url, err := p.signer.SignUpload(ctx, p.config.Bucket, key, contentType, p.config.TTL)
	if err != nil {
		slog.Error("Failed to sign upload URL", "error", err, "bucket", p.config.Bucket, "key", key)
		return nil, err
	}
	slog.Info("Issued upload URL.", "bucket", p.config.Bucket, "key", key, "ttl", p.config.TTL.String())
	return &models.PresignResponse{URL: url, Key: key, Bucket: p.config.Bucket}, nil
}

func (p *Presigner) Close() error {
	if p.closer != nil {
		return p.closer()
	}
	return nil
}

// SanitizeFileName replaces every character outside [A-Za-z0-9_.-] with '_'.
func SanitizeFileName(name string) string {
	return unsafeFileNameRegex.ReplaceAllString(name, "_")
}
