package gcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// StorageClient fetches uploaded documents and signs upload URLs.
type StorageClient struct {
	client *storage.Client
}

// NewStorageClient creates a GCS client using application default credentials.
func NewStorageClient(ctx context.Context) (*StorageClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &StorageClient{client: client}, nil
}

// Fetch reads the full object body along with its declared content type.
// A missing object returns an error wrapping storage.ErrObjectNotExist.
func (s *StorageClient) Fetch(ctx context.Context, bucket, key string) (*models.StoredObject, error) {
	reader, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object gs://%s/%s: %w", bucket, key, err)
	}
	return &models.StoredObject{
		ContentType: reader.Attrs.ContentType,
		Bytes:       data,
	}, nil
}

// SignUpload returns a V4 signed URL allowing a single PUT of the object.
func (s *StorageClient) SignUpload(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign upload URL for gs://%s/%s: %w", bucket, key, err)
	}
	return url, nil
}

func (s *StorageClient) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
