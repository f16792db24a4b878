// Package service orchestrates organization linkage: resolving references,
// writing join rows, validating extracted entities and reporting coverage.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	linkagemetrics "orglink/internal/linkage/metrics"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/ports"
	"orglink/internal/linkage/registry"
	"orglink/pkg/platform/audit"
)

const (
	// maxSuggestions caps near-miss names returned on a validation miss.
	maxSuggestions = 3

	defaultBatchConcurrency = 4
)

// Resolver is the cascade the service links through.
type Resolver interface {
	Resolve(ref *models.Reference) models.MatchResult
	Suggest(name string, limit int) []string
	Organization(id uuid.UUID) (models.Organization, bool)
}

// Cache is the registry index holder refreshed from the RegistrySource.
type Cache interface {
	Rebuild(orgs []models.Organization) registry.Sizes
	Sizes() registry.Sizes
	Ready() bool
}

// CacheStats reports registry index health.
type CacheStats struct {
	Ready bool `json:"ready"`
	registry.Sizes
}

// Service links subjects to canonical government organizations.
type Service struct {
	source   ports.RegistrySource
	links    ports.LinkageStore
	tracker  ports.UnmatchedTracker
	cache    Cache
	resolver Resolver

	tx               ports.StoreTx
	auditPublisher   ports.AuditPublisher
	logger           *slog.Logger
	metrics          *linkagemetrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
	now              func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *linkagemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the unit-of-work boundary for replace-then-insert writes.
func WithTx(tx ports.StoreTx) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithAuditPublisher enables audit events for unmatched references and
// cache maintenance.
func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithBatchConcurrency bounds how many subjects LinkBatch processes at once.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithTracerProvider overrides the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock sets the time source for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

const tracerName = "orglink/internal/linkage/service"

// New constructs a Service.
func New(
	source ports.RegistrySource,
	links ports.LinkageStore,
	tracker ports.UnmatchedTracker,
	cache Cache,
	resolver Resolver,
	opts ...Option,
) (*Service, error) {
	if source == nil {
		return nil, errors.New("registry source is required")
	}
	if links == nil {
		return nil, errors.New("linkage store is required")
	}
	if tracker == nil {
		return nil, errors.New("unmatched tracker is required")
	}
	if cache == nil {
		return nil, errors.New("registry cache is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	s := &Service{
		source:           source,
		links:            links,
		tracker:          tracker,
		cache:            cache,
		resolver:         resolver,
		logger:           slog.New(slog.DiscardHandler),
		tracer:           otel.Tracer(tracerName),
		batchConcurrency: defaultBatchConcurrency,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = &inMemoryStoreTx{}
	}
	return s, nil
}

// RefreshCache reloads every organization and swaps in new indices. On a
// load failure the previous indices keep serving.
func (s *Service) RefreshCache(ctx context.Context) (registry.Sizes, error) {
	ctx, span := s.tracer.Start(ctx, "linkage.RefreshCache")
	defer span.End()

	start := time.Now()
	orgs, err := s.source.ListAllOrganizations(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load organizations")
		s.logger.ErrorContext(ctx, "registry cache refresh failed", "error", err)
		return s.cache.Sizes(), fmt.Errorf("load organizations: %w", err)
	}
	sizes := s.cache.Rebuild(orgs)
	elapsed := time.Since(start)

	s.metrics.SetCacheSizes(sizes.Names, sizes.Acronyms, sizes.ExternalIDs)
	s.metrics.ObserveRefreshLatency(elapsed)
	span.SetAttributes(
		attribute.Int("organizations", len(orgs)),
		attribute.Int("names", sizes.Names),
	)
	s.logger.InfoContext(ctx, "registry cache refreshed",
		"organizations", len(orgs),
		"names", sizes.Names,
		"acronyms", sizes.Acronyms,
		"external_ids", sizes.ExternalIDs,
		"duration_ms", elapsed.Milliseconds(),
	)
	s.emit(ctx, audit.Event{
		Category: audit.CategoryOperations,
		Action:   string(audit.EventCacheRefreshed),
		Subject:  "registry",
		Details: map[string]string{
			"organizations": fmt.Sprint(len(orgs)),
			"names":         fmt.Sprint(sizes.Names),
			"acronyms":      fmt.Sprint(sizes.Acronyms),
			"external_ids":  fmt.Sprint(sizes.ExternalIDs),
		},
	})
	return sizes, nil
}

// CacheStats reports whether the registry is loaded and its index sizes.
func (s *Service) CacheStats() CacheStats {
	return CacheStats{Ready: s.cache.Ready(), Sizes: s.cache.Sizes()}
}

// Statistics reports linkage coverage and the unmatched backlog.
func (s *Service) Statistics(ctx context.Context) (models.LinkageStatistics, error) {
	total, err := s.links.CountTotalSubjects(ctx)
	if err != nil {
		return models.LinkageStatistics{}, fmt.Errorf("count subjects: %w", err)
	}
	linked, err := s.links.CountDistinctLinkedSubjects(ctx)
	if err != nil {
		return models.LinkageStatistics{}, fmt.Errorf("count linked subjects: %w", err)
	}
	stats := models.ComputeLinkageStatistics(total, linked)
	unmatched, err := s.tracker.Count(ctx)
	if err != nil {
		return models.LinkageStatistics{}, fmt.Errorf("count unmatched names: %w", err)
	}
	stats.UnmatchedNames = unmatched
	return stats, nil
}

// Unmatched lists recorded unmatched display names in ascending order.
func (s *Service) Unmatched(ctx context.Context) ([]string, error) {
	names, err := s.tracker.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unmatched names: %w", err)
	}
	return names, nil
}

// ClearUnmatched empties the unmatched set.
func (s *Service) ClearUnmatched(ctx context.Context) error {
	details := map[string]string{}
	count, countErr := s.tracker.Count(ctx)
	if countErr != nil {
		s.logger.WarnContext(ctx, "failed to count unmatched names before clear", "error", countErr)
	} else {
		details["count"] = fmt.Sprint(count)
	}
	if err := s.tracker.Clear(ctx); err != nil {
		return fmt.Errorf("clear unmatched names: %w", err)
	}
	if countErr != nil {
		s.logger.InfoContext(ctx, "unmatched names cleared")
	} else {
		s.logger.InfoContext(ctx, "unmatched names cleared", "count", count)
	}
	s.emit(ctx, audit.Event{
		Category: audit.CategoryDataQuality,
		Action:   string(audit.EventUnmatchedCleared),
		Subject:  "unmatched",
		Details:  details,
	})
	return nil
}

// Links returns the stored rows for a subject, primary first.
func (s *Service) Links(ctx context.Context, subjectID uuid.UUID) ([]models.LinkageRow, error) {
	rows, err := s.links.ListLinksForSubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return rows, nil
}

// inMemoryStoreTx serializes units of work when no transactional store is
// configured.
type inMemoryStoreTx struct {
	mu sync.Mutex
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
