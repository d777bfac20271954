package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type generateResult struct {
	text string
	err  error
}

// fakeGenerator replies per model ID and records every request.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string][]generateResult
	calls   []models.GenerateRequest
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{replies: map[string][]generateResult{}}
}

// on queues a reply for modelID. The last queued reply repeats.
func (f *fakeGenerator) on(modelID, text string, err error) *fakeGenerator {
	f.replies[modelID] = append(f.replies[modelID], generateResult{text: text, err: err})
	return f
}

func (f *fakeGenerator) Generate(_ context.Context, req models.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	queue := f.replies[req.ModelID]
	if len(queue) == 0 {
		return "", errors.New("no reply configured for model " + req.ModelID)
	}
	r := queue[0]
	if len(queue) > 1 {
		f.replies[req.ModelID] = queue[1:]
	}
	return r.text, r.err
}

func (f *fakeGenerator) modelIDs() []string {
	ids := make([]string, len(f.calls))
	for i, c := range f.calls {
		ids[i] = c.ModelID
	}
	return ids
}

type fakeDetector struct {
	lines []string
	err   error
	calls int
}

func (f *fakeDetector) DetectLines(_ context.Context, _ []byte) ([]string, error) {
	f.calls++
	return f.lines, f.err
}

type fakeStore struct {
	obj   *models.StoredObject
	err   error
	calls int
}

func (f *fakeStore) Fetch(_ context.Context, _, _ string) (*models.StoredObject, error) {
	f.calls++
	return f.obj, f.err
}

type fakeSigner struct {
	url   string
	err   error
	calls []signCall
}

type signCall struct {
	bucket, key, contentType string
	ttl                      time.Duration
}

func (f *fakeSigner) SignUpload(_ context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	f.calls = append(f.calls, signCall{bucket, key, contentType, ttl})
	return f.url, f.err
}

func testConfig() PipelineConfig {
	return PipelineConfig{
		ProjectID:        "test-project",
		VertexAIRegion:   "us-central1",
		PrimaryModelID:   "primary",
		FallbackModelID:  "fallback",
		TextModelID:      "text-only",
		MinImageBytes:    defaultMinImageBytes,
		ExtractMaxTokens: defaultExtractTokens,
		QuizMaxTokens:    defaultQuizTokens,
		QuizTemperature:  defaultQuizTemperature,
	}
}
