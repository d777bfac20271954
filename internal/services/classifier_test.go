package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		key, contentType string
		want             models.MediaKind
	}{
		{"uploads/a.pdf", "", models.MediaPDF},
		{"uploads/A.PDF", "", models.MediaPDF},
		{"uploads/blob", "application/pdf", models.MediaPDF},
		{"uploads/a.png", "", models.MediaPNG},
		{"uploads/blob", "image/png", models.MediaPNG},
		{"uploads/a.jpg", "", models.MediaJPEG},
		{"uploads/a.jpeg", "", models.MediaJPEG},
		{"uploads/blob", "image/jpeg", models.MediaJPEG},
		{"uploads/a.png", "application/pdf", models.MediaPDF},
		{"uploads/a.gif", "image/gif", models.MediaUnsupported},
		{"uploads/a.txt", "", models.MediaUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.key+"|"+tt.contentType, func(t *testing.T) {
			if got := ClassifyMedia(tt.key, tt.contentType); got != tt.want {
				t.Errorf("ClassifyMedia(%q, %q) = %q, want %q", tt.key, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureClass
	}{
		{"nil", nil, FailureOther},
		{"inference profile", errors.New("Invocation with on-demand throughput isn't supported. Retry with an Inference Profile."), FailureInferenceProfileRequired},
		{"marketplace", errors.New("Model access is denied due to missing Marketplace subscription"), FailureMarketplaceAccessDenied},
		{"subscribe", errors.New("you must Subscribe to this model"), FailureMarketplaceAccessDenied},
		{"unsupported image", errors.New("Could not process image"), FailureUnsupportedImageContent},
		{"wrapped", fmt.Errorf("vertex generate content (model m): %w", errors.New("unsupported image format")), FailureUnsupportedImageContent},
		{"first match wins", errors.New("inference profile required; marketplace"), FailureInferenceProfileRequired},
		{"other", errors.New("deadline exceeded"), FailureOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFailure(tt.err); got != tt.want {
				t.Errorf("ClassifyFailure() = %q, want %q", got, tt.want)
			}
		})
	}
}
