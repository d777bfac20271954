package gcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	vision "google.golang.org/api/vision/v1"
)

// textDetectionFeature returns line-broken text for photos and scans.
const textDetectionFeature = "TEXT_DETECTION"

// VisionClient is the non-generative OCR fallback.
type VisionClient struct {
	service *vision.Service
}

// NewVisionClient creates a Cloud Vision client using application default credentials.
func NewVisionClient(ctx context.Context) (*VisionClient, error) {
	service, err := vision.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %w", err)
	}
	return &VisionClient{service: service}, nil
}

// DetectLines runs text detection on image bytes and returns the non-empty
// detected lines in reading order.
func (c *VisionClient) DetectLines(ctx context.Context, image []byte) ([]string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{Type: textDetectionFeature}},
		}},
	}

	resp, err := c.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, nil
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate: %s (code %d)", r.Error.Message, r.Error.Code)
	}
	return annotationLines(r), nil
}

// annotationLines prefers the full-text annotation and falls back to the
// first entity annotation, which holds the whole detected text.
func annotationLines(r *vision.AnnotateImageResponse) []string {
	var text string
	switch {
	case r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "":
		text = r.FullTextAnnotation.Text
	case len(r.TextAnnotations) > 0 && r.TextAnnotations[0] != nil:
		text = r.TextAnnotations[0].Description
	default:
		return nil
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
