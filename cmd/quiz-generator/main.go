package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/documentquizflow/internal/api"
	"github.com/Lllllllleong/documentquizflow/internal/services"
)

var (
	pipelineInstance *services.Pipeline
	once             sync.Once
	initErr          error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleGenerateQuiz" is the entry point name configured at deploy time.
	functions.HTTP("HandleGenerateQuiz", handleGenerateQuiz)
}

// main is required by the Go Functions Framework.
func main() {}

func handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		pipelineInstance, initErr = services.NewPipeline(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		api.WriteError(w, fmt.Errorf("failed to initialize service: %w", initErr))
		return
	}
	api.HandleQuiz(pipelineInstance).ServeHTTP(w, r)
}
