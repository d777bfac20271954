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
	presignerInstance *services.Presigner
	once              sync.Once
	initErr           error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandlePresign", handlePresign)
}

// main is required by the Go Functions Framework.
func main() {}

func handlePresign(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		presignerInstance, initErr = services.NewPresigner(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		api.WriteError(w, fmt.Errorf("failed to initialize service: %w", initErr))
		return
	}
	api.HandlePresign(presignerInstance).ServeHTTP(w, r)
}
