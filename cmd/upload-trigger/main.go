package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/documentquizflow/internal/models"
	"github.com/Lllllllleong/documentquizflow/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

var (
	triggerInstance *services.UploadTrigger
	once            sync.Once
	initErr         error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Fired by object finalize events on the upload bucket.
	functions.CloudEvent("QuizOnUpload", quizOnUpload)
}

// main is required by the Go Functions Framework.
func main() {}

func quizOnUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		var pipeline *services.Pipeline
		pipeline, initErr = services.NewPipeline(context.Background())
		if initErr == nil {
			triggerInstance = services.NewUploadTrigger(pipeline, services.LoadPresignConfig().Prefix)
		}
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent models.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Returning an error marks the invocation as failed so the platform retries.
	return triggerInstance.Process(ctx, gcsEvent)
}
