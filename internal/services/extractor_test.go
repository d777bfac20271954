package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/models"
)

var (
	errInferenceProfile = errors.New("on-demand throughput isn't supported; use an inference profile")
	errMarketplace      = errors.New("Model access is denied: aws-marketplace subscription required")
	errUnsupportedImage = errors.New("The model could not process image content")
)

func pngDoc() models.DocumentRef {
	return models.DocumentRef{Bucket: "b", Key: "uploads/page.png", Kind: models.MediaPNG}
}

func pdfDoc() models.DocumentRef {
	return models.DocumentRef{Bucket: "b", Key: "uploads/notes.pdf", Kind: models.MediaPDF}
}

func TestExtractPrimarySuccess(t *testing.T) {
	gen := newFakeGenerator().on("primary", "  本文  ", nil)
	e := NewExtractor(gen, &fakeDetector{}, testConfig())

	got, err := e.Extract(context.Background(), discardLogger, pdfDoc(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Text != "本文" || got.Source != SourcePrimaryModel || got.QuizModelID != "primary" {
		t.Errorf("Extract() = %+v", got)
	}

	req := gen.calls[0]
	if len(req.Blocks) != 2 || req.Blocks[0].Text != gcp.ExtractionUserPrompt {
		t.Fatalf("instruction block must come first, got %+v", req.Blocks)
	}
	doc := req.Blocks[1]
	if doc.Kind != models.BlockDocument || doc.Format != "pdf" || doc.Name != "notes.pdf" {
		t.Errorf("document block = %+v", doc)
	}
	if req.Temperature != 0 || req.MaxTokens != defaultExtractTokens {
		t.Errorf("request params = (%d, %v)", req.MaxTokens, req.Temperature)
	}
}

func TestExtractImageBlock(t *testing.T) {
	gen := newFakeGenerator().on("primary", "text", nil)
	e := NewExtractor(gen, &fakeDetector{}, testConfig())

	doc := models.DocumentRef{Key: "a.jpg", Kind: models.MediaJPEG}
	if _, err := e.Extract(context.Background(), discardLogger, doc, []byte("jpg")); err != nil {
		t.Fatal(err)
	}
	if b := gen.calls[0].Blocks[1]; b.Kind != models.BlockImage || b.Format != "jpeg" {
		t.Errorf("image block = %+v", b)
	}
}

func TestExtractInferenceProfileRetriesOnce(t *testing.T) {
	gen := newFakeGenerator().
		on("primary", "", errInferenceProfile).
		on("fallback", "fallback text", nil)
	e := NewExtractor(gen, &fakeDetector{}, testConfig())

	got, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Source != SourceFallbackModel || got.QuizModelID != "fallback" || got.Text != "fallback text" {
		t.Errorf("Extract() = %+v", got)
	}
	if want := "primary,fallback"; strings.Join(gen.modelIDs(), ",") != want {
		t.Errorf("calls = %v, want %s", gen.modelIDs(), want)
	}
}

func TestExtractFallbackErrorPropagates(t *testing.T) {
	fallbackErr := errors.New("fallback exploded")
	gen := newFakeGenerator().
		on("primary", "", errInferenceProfile).
		on("fallback", "", fallbackErr)
	det := &fakeDetector{lines: []string{"x"}}
	e := NewExtractor(gen, det, testConfig())

	_, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png"))
	if err != fallbackErr {
		t.Fatalf("Extract() error = %v, want the fallback error unmodified", err)
	}
	if len(gen.calls) != 2 || det.calls != 0 {
		t.Errorf("calls = %d model, %d ocr; want 2, 0", len(gen.calls), det.calls)
	}
}

func TestExtractMarketplaceImageUsesOCR(t *testing.T) {
	gen := newFakeGenerator().on("primary", "", errMarketplace)
	det := &fakeDetector{lines: []string{"一行目", "", "二行目"}}
	e := NewExtractor(gen, det, testConfig())

	got, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Text != "一行目\n二行目" {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Source != SourceOCR || got.QuizModelID != "text-only" {
		t.Errorf("Extract() = %+v", got)
	}
	if len(gen.calls) != 1 || det.calls != 1 {
		t.Errorf("calls = %d model, %d ocr; want 1, 1", len(gen.calls), det.calls)
	}
}

func TestExtractMarketplacePDFIsRejected(t *testing.T) {
	gen := newFakeGenerator().on("primary", "", errMarketplace)
	det := &fakeDetector{}
	e := NewExtractor(gen, det, testConfig())

	_, err := e.Extract(context.Background(), discardLogger, pdfDoc(), []byte("%PDF"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Extract() error = %v, want ValidationError", err)
	}
	if det.calls != 0 {
		t.Errorf("OCR must not run for PDFs, got %d calls", det.calls)
	}
}

func TestExtractUnsupportedImage(t *testing.T) {
	gen := newFakeGenerator().on("primary", "", errUnsupportedImage)
	e := NewExtractor(gen, &fakeDetector{}, testConfig())

	_, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Extract() error = %v, want ValidationError", err)
	}
	if len(gen.calls) != 1 {
		t.Errorf("model calls = %d, want 1", len(gen.calls))
	}
}

func TestExtractOtherErrorPropagates(t *testing.T) {
	boom := errors.New("deadline exceeded")
	gen := newFakeGenerator().on("primary", "", boom)
	det := &fakeDetector{}
	e := NewExtractor(gen, det, testConfig())

	_, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png"))
	if err != boom {
		t.Fatalf("Extract() error = %v, want %v", err, boom)
	}
	if len(gen.calls) != 1 || det.calls != 0 {
		t.Errorf("no fallback expected, got %d model, %d ocr calls", len(gen.calls), det.calls)
	}
}

func TestExtractOCRError(t *testing.T) {
	ocrErr := errors.New("vision unavailable")
	gen := newFakeGenerator().on("primary", "", errMarketplace)
	e := NewExtractor(gen, &fakeDetector{err: ocrErr}, testConfig())

	if _, err := e.Extract(context.Background(), discardLogger, pngDoc(), []byte("png")); err != ocrErr {
		t.Fatalf("Extract() error = %v, want %v", err, ocrErr)
	}
}
