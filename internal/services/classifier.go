package services

import (
	"strings"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

// ClassifyMedia derives the document kind from the object key suffix or the
// declared content type. PDF is checked first, then PNG, then JPEG.
func ClassifyMedia(key, contentType string) models.MediaKind {
	lowerKey := strings.ToLower(key)
	ct := strings.ToLower(contentType)

	switch {
	case strings.HasSuffix(lowerKey, ".pdf") || strings.Contains(ct, "pdf"):
		return models.MediaPDF
	case strings.HasSuffix(lowerKey, ".png") || strings.Contains(ct, "png"):
		return models.MediaPNG
	case strings.HasSuffix(lowerKey, ".jpg") || strings.HasSuffix(lowerKey, ".jpeg") ||
		strings.Contains(ct, "jpeg") || strings.Contains(ct, "jpg"):
		return models.MediaJPEG
	default:
		return models.MediaUnsupported
	}
}
