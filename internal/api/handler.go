package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/ingest"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/store"
)

const maxRequestBodySize = 10 << 20 // 10MB

// DefaultModelName is the artifact name used when AppDeps.ModelName is empty.
const DefaultModelName = "sentiment"

type AppDeps struct {
	Analyzer   *painpoint.Analyzer
	Classifier *painpoint.Classifier // optional; /train answers 503 without it
	Store      *store.Store          // optional; results are not persisted without it
	Logger     *slog.Logger
	Token      string // empty disables bearer auth
	ModelName  string
}

func NewHandler(deps AppDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.ModelName == "" {
		deps.ModelName = DefaultModelName
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}
		r.Post("/analyze", handleAnalyze(deps))
		r.Post("/train", handleTrain(deps))
		r.Get("/stats", handleStats(deps))
		r.Get("/pain-points", handleListPainPoints(deps))
		r.Get("/pain-points/{key}", handleGetPainPoint(deps))
		r.Get("/runs/latest", handleLatestRun(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts posts as a JSON array or JSON Lines and returns the
// batch result. With a store wired, documents, pain points and the run are
// persisted before responding.
func handleAnalyze(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		docs, err := ingest.ReadDocuments(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		result, err := deps.Analyzer.AnalyzeBatch(r.Context(), docs)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "analysis failed: %v", err)
			return
		}

		if deps.Store != nil {
			skipped, err := deps.Store.SaveBatch(r.Context(), docs, result)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to persist results: %v", err)
				return
			}
			if skipped > 0 {
				deps.Logger.Warn("pain points skipped while persisting", "run_id", result.RunID, "skipped", skipped)
			}
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleTrain(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Classifier == nil {
			httpError(w, http.StatusServiceUnavailable, "unavailable", "no classifier configured")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		samples, err := ingest.ReadSamples(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		metrics, err := deps.Classifier.Fit(samples)
		switch {
		case errors.Is(err, painpoint.ErrInsufficientData):
			httpError(w, http.StatusUnprocessableEntity, "insufficient_data", "%v", err)
			return
		case errors.Is(err, painpoint.ErrInvalidLabel):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "training failed: %v", err)
			return
		}

		if deps.Store != nil {
			blob, err := deps.Classifier.MarshalBinary()
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to encode model: %v", err)
				return
			}
			artifact := store.Artifact{Name: deps.ModelName, Blob: blob, TrainedAt: metrics.TrainedAt}
			if err := deps.Store.SaveArtifact(r.Context(), artifact); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to save model: %v", err)
				return
			}
		}

		writeJSON(w, http.StatusOK, metrics)
	}
}

func handleStats(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Analyzer.Stats())
	}
}

func handleListPainPoints(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}

		q := r.URL.Query()
		filter := store.PainPointFilter{
			Category: painpoint.Tier(q.Get("category")),
			Product:  q.Get("product"),
			Limit:    parseIntParam(r, "limit", 50, 500),
		}
		if filter.Category != "" && !filter.Category.Valid() {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown category %q", filter.Category)
			return
		}
		if s := q.Get("min_severity"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v < 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid min_severity %q", s)
				return
			}
			filter.MinSeverity = v
		}

		records, err := deps.Store.ListPainPoints(r.Context(), filter)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list pain points: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func handleGetPainPoint(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}

		key := chi.URLParam(r, "key")
		if parsed := painpoint.ParseKey(key); parsed.Skipped {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%s", parsed.Reason)
			return
		}

		rec, err := deps.Store.GetPainPoint(r.Context(), key)
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "pain point not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get pain point: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleLatestRun(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireStore(w, deps) {
			return
		}

		run, err := deps.Store.LatestRun(r.Context())
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "no analysis runs yet")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load run: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func requireStore(w http.ResponseWriter, deps AppDeps) bool {
	if deps.Store == nil {
		httpError(w, http.StatusServiceUnavailable, "unavailable", "no store configured")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
