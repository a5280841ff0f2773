// Package api exposes the categorization engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fjacquet/fintrack/internal/logging"
	"fjacquet/fintrack/internal/models"
)

const maxBodySize = 1 << 20 // 1MB

// Categorizer is the engine surface the API drives.
type Categorizer interface {
	PredictCategory(ctx context.Context, description string) (models.Prediction, bool, error)
	LearnFromCorrection(ctx context.Context, in models.CorrectionInput) error
	TrainMLModel(ctx context.Context) (models.TrainResult, error)
	GetStats(ctx context.Context) (models.EngineStats, error)
}

// CategoryLookup resolves category ids to catalog entries.
type CategoryLookup interface {
	CategoryByID(id int64) (models.Category, bool)
}

// Deps are the collaborators of the HTTP handler.
type Deps struct {
	Engine     Categorizer
	Categories CategoryLookup
	Logger     logging.Logger
}

// NewHandler returns the router serving /health and the categorization
// endpoints under /api/v1/categorization.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.GetLogger()
	}

	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))

	r.Get("/health", handleHealth)
	r.Route("/api/v1/categorization", func(r chi.Router) {
		r.Post("/train", handleTrain(deps))
		r.Get("/stats", handleStats(deps))
		r.Post("/predict", handlePredict(deps))
		r.Post("/corrections", handleCorrection(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("HTTP request",
				logging.Field{Key: "method", Value: r.Method},
				logging.Field{Key: "path", Value: r.URL.Path},
				logging.Field{Key: logging.FieldStatus, Value: rec.status},
				logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
