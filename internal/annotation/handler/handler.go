// Package handler exposes the annotation platform over HTTP: the annotate
// endpoint, pattern set and lookup management, cache controls, and the run
// audit listing.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/cache"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/store"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/validator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
	"github.com/annotext/emoji-annotation-platform/pkg/logger"
	"github.com/annotext/emoji-annotation-platform/pkg/metrics"
)

type Handler struct {
	service *annotation.Service
	cache   *cache.ResultCache
	store   *store.Store
	metrics *metrics.Metrics
	limits  validator.Limits
	logger  *slog.Logger
}

func New(svc *annotation.Service, resultCache *cache.ResultCache, st *store.Store, m *metrics.Metrics, limits validator.Limits) *Handler {
	return &Handler{
		service: svc,
		cache:   resultCache,
		store:   st,
		metrics: m,
		limits:  limits,
		logger:  slog.Default().With("component", "annotation-handler"),
	}
}

// Routes registers the handler's endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/annotate", h.Annotate)
	mux.HandleFunc("GET /api/v1/patterns", h.Patterns)
	mux.HandleFunc("GET /api/v1/patterns/{id}/lookup", h.ListLookup)
	mux.HandleFunc("PUT /api/v1/patterns/{id}/lookup", h.UpsertLookup)
	mux.HandleFunc("DELETE /api/v1/patterns/{id}/lookup/{emoji}", h.DeleteLookup)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/runs", h.Runs)
	mux.HandleFunc("GET /health", h.Health)
}

func (h *Handler) Annotate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req annotation.AnnotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validator.ValidateAnnotateRequest(&req, h.limits); err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *annotation.Result
	var err error
	cacheHit := false

	// Only plain-text requests without a caller-assigned document ID are
	// cacheable: token-list requests and explicit IDs make the result
	// request-specific.
	if h.cache != nil && req.Text != "" && req.DocumentID == "" {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, req.PatternID, req.Text, func() (*annotation.Result, error) {
			return h.service.Annotate(ctx, &req, "http")
		})
	} else {
		result, err = h.service.Annotate(ctx, &req, "http")
	}

	if err != nil {
		statusCode := apperrors.HTTPStatusCode(err)
		log.Error("annotation failed",
			"error", err,
			"status_code", statusCode,
		)
		h.writeError(w, statusCode, "annotation failed")
		return
	}

	if h.metrics != nil {
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		h.metrics.AnnotationLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}

	log.Info("document annotated",
		"document_id", result.DocumentID,
		"pattern_id", result.PatternID,
		"tokens", result.TokenCount,
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	reg := h.service.Registry()
	patterns := make([]map[string]any, 0, reg.Len())
	for _, id := range reg.IDs() {
		a, err := reg.Get(id)
		if err != nil {
			continue
		}
		patterns = append(patterns, map[string]any{
			"pattern_id":      id,
			"merge_spans":     a.MergeSpans(),
			"attribute_names": a.AttributeNames(),
			"catalog_size":    a.Catalog().Size(),
			"default":         id == reg.DefaultID(),
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"patterns": patterns})
}

func (h *Handler) ListLookup(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "lookup store is disabled")
		return
	}
	patternID := r.PathValue("id")
	if _, err := h.service.Registry().Get(patternID); err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "unknown pattern id")
		return
	}
	entries, err := h.store.ListLookup(r.Context(), patternID)
	if err != nil {
		h.logger.Error("listing lookup entries failed", "pattern_id", patternID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "listing lookup entries failed")
		return
	}
	if entries == nil {
		entries = []store.LookupEntry{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type upsertLookupRequest struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

func (h *Handler) UpsertLookup(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "lookup store is disabled")
		return
	}
	ctx := r.Context()
	patternID := r.PathValue("id")
	current, err := h.service.Registry().Get(patternID)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "unknown pattern id")
		return
	}

	var req upsertLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Emoji == "" {
		h.writeError(w, http.StatusBadRequest, "emoji is required")
		return
	}

	if err := h.store.UpsertLookupEntry(ctx, patternID, req.Emoji, req.Description); err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "storing lookup entry failed")
		return
	}
	if err := h.reloadAnnotator(r, current); err != nil {
		h.logger.Error("reloading annotator failed", "pattern_id", patternID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "lookup stored but reload failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

func (h *Handler) DeleteLookup(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "lookup store is disabled")
		return
	}
	patternID := r.PathValue("id")
	current, err := h.service.Registry().Get(patternID)
	if err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "unknown pattern id")
		return
	}

	if err := h.store.DeleteLookupEntry(r.Context(), patternID, r.PathValue("emoji")); err != nil {
		h.writeError(w, apperrors.HTTPStatusCode(err), "deleting lookup entry failed")
		return
	}
	if err := h.reloadAnnotator(r, current); err != nil {
		h.logger.Error("reloading annotator failed", "pattern_id", patternID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "lookup deleted but reload failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// reloadAnnotator rebuilds the annotator from the stored lookup and swaps
// it into the registry, then drops every cached result. Cached entries were
// computed against the old lookup.
func (h *Handler) reloadAnnotator(r *http.Request, current *annotator.Annotator) error {
	ctx := r.Context()
	patternID := current.PatternID()

	lookup, err := h.store.LoadLookup(ctx, patternID)
	if err != nil {
		return err
	}
	rebuilt, err := annotator.New(annotator.Options{
		PatternID:      patternID,
		MergeSpans:     current.MergeSpans(),
		Lookup:         lookup,
		AttributeNames: current.AttributeNames(),
	})
	if err != nil {
		return err
	}
	h.service.Registry().Replace(rebuilt)
	if h.metrics != nil {
		h.metrics.LookupEntriesLoaded.WithLabelValues(patternID).Set(float64(len(lookup)))
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logger.Error("cache invalidation after lookup change failed", "error", err)
		}
	}
	return nil
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, http.StatusServiceUnavailable, "run audit is disabled")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	runs, err := h.store.RecentRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing runs failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	out := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		out = append(out, map[string]any{
			"id":          run.ID,
			"document_id": run.DocumentID,
			"pattern_id":  run.PatternID,
			"token_count": run.TokenCount,
			"emoji_count": run.EmojiCount,
			"source":      run.Source,
			"created_at":  run.CreatedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
