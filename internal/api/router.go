package api

import (
	"net/http"

	"github.com/Lllllllleong/documentquizflow/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the function handlers for running outside Cloud Functions.
func NewRouter(quiz QuizService, presign PresignService) *chi.Mux {
	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/process", HandleQuiz(quiz))
	r.Handle("/presign", HandlePresign(presign))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return r
}
