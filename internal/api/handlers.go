// Package api adapts the services to HTTP: JSON bodies, permissive CORS
// headers and error-to-status mapping. The handlers are shared by the
// function entry points and the standalone server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/documentquizflow/internal/models"
	"github.com/Lllllllleong/documentquizflow/internal/services"
)

// QuizService runs the pipeline and the model health check.
type QuizService interface {
	Process(ctx context.Context, req *models.QuizRequest) (*models.PipelineResult, error)
	Check(ctx context.Context) *models.HealthResponse
}

// PresignService issues upload URLs.
type PresignService interface {
	Process(ctx context.Context, req *models.PresignRequest) (*models.PresignResponse, error)
}

// HandleQuiz serves {action:"check"} and {bucket, key} requests.
func HandleQuiz(svc QuizService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}

		req := decodeBody[models.QuizRequest](r)

		if req.Action == models.ActionCheck {
			res := svc.Check(r.Context())
			status := http.StatusOK
			if !res.OK {
				status = http.StatusInternalServerError
			}
			WriteJSON(w, status, res)
			return
		}

		res, err := svc.Process(r.Context(), &req)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

// HandlePresign serves {filename, contentType} requests.
func HandlePresign(svc PresignService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
			return
		}

		req := decodeBody[models.PresignRequest](r)

		res, err := svc.Process(r.Context(), &req)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

// decodeBody returns the zero request when the body is missing or not JSON,
// so the service reports the missing fields.
func decodeBody[T any](r *http.Request) T {
	var req T
	if r.Body == nil {
		return req
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			slog.Warn("Could not decode request body", "error", err)
		}
		var zero T
		return zero
	}
	return req
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError writes {error} with the status for err.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), models.ErrorResponse{Error: err.Error()})
}

// WriteJSON writes body with the CORS headers every response carries.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// CORS sets the permissive cross-origin headers before the request reaches
// routing, so not-found, method-not-allowed and recovered responses carry
// them too.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "content-type")
}
