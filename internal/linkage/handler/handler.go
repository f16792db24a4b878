// Package handler exposes the linkage admin endpoints.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orglink/internal/linkage/models"
	"orglink/internal/linkage/registry"
	"orglink/internal/linkage/service"
	"orglink/internal/platform/middleware"
	"orglink/pkg/platform/httputil"
	"orglink/pkg/platform/sentinel"
)

// Service defines the linkage operations the admin surface needs.
type Service interface {
	LinkSubject(ctx context.Context, subjectID uuid.UUID, refs []models.Reference) (int, error)
	LinkBatch(ctx context.Context, batch []models.SubjectReferences) models.SyncResult
	Links(ctx context.Context, subjectID uuid.UUID) ([]models.LinkageRow, error)
	Resolve(ctx context.Context, ref models.Reference) (models.MatchResult, *models.Organization)
	Validate(ctx context.Context, displayName, entityType string) models.ValidationResult
	Statistics(ctx context.Context) (models.LinkageStatistics, error)
	Unmatched(ctx context.Context) ([]string, error)
	ClearUnmatched(ctx context.Context) error
	RefreshCache(ctx context.Context) (registry.Sizes, error)
	CacheStats() service.CacheStats
}

// Handler wires admin endpoints to the linkage service.
type Handler struct {
	service    Service
	logger     *slog.Logger
	targetRate float64
}

// New constructs a handler. targetRate is the default for the stats
// endpoint when no target query parameter is given.
func New(service Service, logger *slog.Logger, targetRate float64) *Handler {
	return &Handler{service: service, logger: logger, targetRate: targetRate}
}

// Register mounts the endpoints on r. Callers apply authentication.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/linkage", func(r chi.Router) {
		r.Get("/unmatched", h.HandleListUnmatched)
		r.Delete("/unmatched", h.HandleClearUnmatched)
		r.Get("/stats", h.HandleStats)
		r.Get("/cache", h.HandleCacheStats)
		r.Post("/cache/refresh", h.HandleRefreshCache)
		r.Post("/resolve", h.HandleResolve)
		r.Post("/validate", h.HandleValidate)
		r.Post("/batch", h.HandleBatch)
		r.Get("/subjects/{subjectID}/links", h.HandleListLinks)
		r.Put("/subjects/{subjectID}/links", h.HandleLinkSubject)
	})
}

// HandleListUnmatched handles GET /admin/linkage/unmatched.
func (h *Handler) HandleListUnmatched(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	names, err := h.service.Unmatched(ctx)
	if err != nil {
		h.fail(w, r, "failed to list unmatched names", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, UnmatchedResponse{Count: len(names), Names: names})
}

// HandleClearUnmatched handles DELETE /admin/linkage/unmatched.
func (h *Handler) HandleClearUnmatched(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.ClearUnmatched(ctx); err != nil {
		h.fail(w, r, "failed to clear unmatched names", err)
		return
	}
	h.logger.InfoContext(ctx, "unmatched names cleared via admin",
		"request_id", middleware.GetRequestID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats handles GET /admin/linkage/stats?target=95.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	target := h.targetRate
	if raw := r.URL.Query().Get("target"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			httputil.WriteError(w, fmt.Errorf("target must be a number between 0 and 100: %w", sentinel.ErrInvalidInput))
			return
		}
		target = parsed
	}
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, "failed to compute linkage statistics", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{
		LinkageStatistics: stats,
		Target:            target,
		MeetsTarget:       stats.MeetsTarget(target),
	})
}

// HandleCacheStats handles GET /admin/linkage/cache.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.CacheStats())
}

// HandleRefreshCache handles POST /admin/linkage/cache/refresh.
func (h *Handler) HandleRefreshCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	sizes, err := h.service.RefreshCache(ctx)
	if err != nil {
		h.fail(w, r, "registry cache refresh failed", fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err))
		return
	}
	h.logger.InfoContext(ctx, "registry cache refreshed via admin",
		"request_id", middleware.GetRequestID(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, sizes)
}

// HandleResolve handles POST /admin/linkage/resolve.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ResolveRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	if !h.cacheReady(w) {
		return
	}
	match, org := h.service.Resolve(ctx, req.Reference())
	httputil.WriteJSON(w, http.StatusOK, ResolveResponse{MatchResult: match, Organization: org})
}

// HandleValidate handles POST /admin/linkage/validate.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	if !h.cacheReady(w) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Validate(ctx, req.Name, req.EntityType))
}

// HandleLinkSubject handles PUT /admin/linkage/subjects/{subjectID}/links.
func (h *Handler) HandleLinkSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[LinkRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	if !h.cacheReady(w) {
		return
	}
	n, err := h.service.LinkSubject(ctx, subjectID, req.References)
	if err != nil {
		h.fail(w, r, "failed to link subject", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LinkResponse{SubjectID: subjectID, LinksCreated: n})
}

// HandleListLinks handles GET /admin/linkage/subjects/{subjectID}/links.
func (h *Handler) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	rows, err := h.service.Links(r.Context(), subjectID)
	if err != nil {
		h.fail(w, r, "failed to list links", err)
		return
	}
	if rows == nil {
		rows = []models.LinkageRow{}
	}
	httputil.WriteJSON(w, http.StatusOK, LinksResponse{SubjectID: subjectID, Links: rows})
}

// HandleBatch handles POST /admin/linkage/batch.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}
	if !h.cacheReady(w) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.LinkBatch(ctx, req.Batch()))
}

func (h *Handler) subjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "subjectID"))
	if err != nil || id == uuid.Nil {
		httputil.WriteError(w, fmt.Errorf("subject id must be a non-nil UUID: %w", sentinel.ErrInvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

// cacheReady rejects resolution work before the first registry load, since
// every reference would otherwise be reported unmatched.
func (h *Handler) cacheReady(w http.ResponseWriter) bool {
	if h.service.CacheStats().Ready {
		return true
	}
	httputil.WriteError(w, sentinel.ErrCacheNotReady)
	return false
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
