// Package app assembles the linkage engine and its admin surface from
// configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orglink/internal/linkage/alias"
	"orglink/internal/linkage/handler"
	linkagemetrics "orglink/internal/linkage/metrics"
	"orglink/internal/linkage/ports"
	"orglink/internal/linkage/registry"
	"orglink/internal/linkage/resolver"
	"orglink/internal/linkage/service"
	"orglink/internal/linkage/store"
	"orglink/internal/linkage/unmatched"
	"orglink/internal/platform/config"
	"orglink/internal/platform/kafka"
	platformmetrics "orglink/internal/platform/metrics"
	"orglink/internal/platform/middleware"
	"orglink/internal/platform/postgres"
	platformredis "orglink/internal/platform/redis"
	"orglink/pkg/platform/audit/publisher"
	kafkastore "orglink/pkg/platform/audit/store/kafka"
	"orglink/pkg/platform/httputil"
	"orglink/pkg/platform/tx"
)

const auditBufferSize = 256

// App owns the wired service and every external resource it opened.
type App struct {
	Service *service.Service

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	http     *platformmetrics.Metrics
	db       *sql.DB
	redis    *platformredis.Client
	tracker  *unmatched.FallbackTracker
	producer *kafka.Producer
	audit    *publisher.Publisher
	closers  []func()
}

// Option tweaks assembly, mostly for tests.
type Option func(*options)

type options struct {
	source ports.RegistrySource
	links  ports.LinkageStore
}

// WithRegistrySource replaces the configured organization source.
func WithRegistrySource(src ports.RegistrySource) Option {
	return func(o *options) { o.source = src }
}

// WithLinkageStore replaces the configured join-table store. When it is an
// in-memory store the sharded in-memory transaction is used.
func WithLinkageStore(links ports.LinkageStore) Option {
	return func(o *options) { o.links = links }
}

// New connects to the configured backends and wires the service. Postgres,
// Redis and Kafka are each optional: without them the engine runs on
// in-memory stores, an in-memory unmatched set and no audit stream.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	a := &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.http = platformmetrics.New(a.registry)
	linkMetrics := linkagemetrics.New(a.registry)

	svcOpts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(linkMetrics),
		service.WithBatchConcurrency(cfg.Linkage.BatchConcurrency),
	}

	source, links, storeTx, err := a.openStores(ctx, o)
	if err != nil {
		a.Close()
		return nil, err
	}
	svcOpts = append(svcOpts, service.WithTx(storeTx))

	tracker, err := a.openTracker(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.openAudit(); err != nil {
		a.Close()
		return nil, err
	}
	if a.audit != nil {
		svcOpts = append(svcOpts, service.WithAuditPublisher(a.audit))
	}

	aliases := alias.Default()
	if cfg.Linkage.AliasFile != "" {
		if aliases, err = alias.LoadFile(cfg.Linkage.AliasFile); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("manual alias file loaded", "path", cfg.Linkage.AliasFile, "entries", aliases.Len())
	}

	cache := registry.NewCache()
	res := resolver.New(cache, aliases, resolver.Config{
		FuzzyEnabled:   cfg.Linkage.FuzzyEnabled,
		FuzzyThreshold: cfg.Linkage.FuzzyThreshold,
	}, resolver.WithMetrics(linkMetrics), resolver.WithLogger(logger))

	svc, err := service.New(source, links, tracker, cache, res, svcOpts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build linkage service: %w", err)
	}
	a.Service = svc
	return a, nil
}

func (a *App) openStores(ctx context.Context, o options) (ports.RegistrySource, ports.LinkageStore, ports.StoreTx, error) {
	if o.source != nil || o.links != nil || a.cfg.Database.URL == "" {
		source := o.source
		if source == nil {
			mem := store.NewInMemoryRegistrySource()
			if path := a.cfg.Linkage.RegistryFixture; path != "" {
				orgs, err := store.LoadRegistryFixture(path)
				if err != nil {
					return nil, nil, nil, err
				}
				mem.Replace(orgs)
				a.logger.Info("registry fixture loaded", "path", path, "organizations", len(orgs))
			}
			source = mem
		}
		links := o.links
		if links == nil {
			links = store.NewInMemoryLinkageStore()
		}
		var storeTx ports.StoreTx
		if mem, ok := links.(*store.InMemoryLinkageStore); ok {
			storeTx = store.NewShardedTx(mem)
		}
		if a.cfg.Database.URL == "" {
			a.logger.Warn("DATABASE_URL not set, using in-memory stores")
		}
		return source, links, storeTx, nil
	}

	db, err := postgres.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() { _ = db.Close() })
	a.logger.Info("connected to postgres")
	return store.NewPostgresRegistrySource(db), store.NewPostgresLinkageStore(db), tx.NewSQLTx(db), nil
}

func (a *App) openTracker(ctx context.Context) (ports.UnmatchedTracker, error) {
	client, err := platformredis.New(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return unmatched.NewInMemory(), nil
	}
	a.redis = client
	a.closers = append(a.closers, func() { _ = client.Close() })
	a.tracker = unmatched.NewFallback(unmatched.NewRedis(client.Client), unmatched.WithLogger(a.logger))
	a.logger.Info("unmatched tracker backed by redis")
	return a.tracker, nil
}

func (a *App) openAudit() error {
	producer, err := kafka.NewProducer(a.cfg.Kafka.Brokers, a.cfg.Kafka.AuditTopic)
	if err != nil {
		return err
	}
	if producer == nil {
		return nil
	}
	a.producer = producer
	a.audit = publisher.NewPublisher(kafkastore.New(producer),
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithLogger(a.logger),
	)
	// Publisher drains before the producer flushes.
	a.closers = append(a.closers, producer.Close, a.audit.Close)
	a.logger.Info("audit events streamed to kafka", "topic", a.cfg.Kafka.AuditTopic)
	return nil
}

// Router builds the HTTP surface: health and metrics in the open, the
// linkage admin endpoints behind the admin token.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Logger(a.logger))
	r.Use(a.http.Instrument)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))

	h := handler.New(a.Service, a.logger, a.cfg.Linkage.TargetRate)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(a.cfg.Server.AdminToken, a.logger))
		h.Register(r)
	})
	return r
}

type healthResponse struct {
	Status     string            `json:"status"`
	CacheReady bool              `json:"cache_ready"`
	Checks     map[string]string `json:"checks,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", CacheReady: a.Service.CacheStats().Ready, Checks: map[string]string{}}
	check := func(name string, err error) {
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			return
		}
		resp.Checks[name] = "ok"
	}
	if a.db != nil {
		check("postgres", a.db.PingContext(ctx))
	}
	if a.redis != nil {
		check("redis", a.redis.Health(ctx))
		resp.Checks["unmatched_tracker_circuit"] = a.tracker.State().String()
	}
	if a.producer != nil {
		check("kafka", a.producer.Health(ctx))
	}
	status := http.StatusOK
	if resp.Status != "ok" || !resp.CacheReady {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

// RunRefresher reloads the registry cache every interval until ctx is done.
// A non-positive interval disables periodic refresh.
func (a *App) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.Service.RefreshCache(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.ErrorContext(ctx, "scheduled registry refresh failed", "error", err)
			}
		}
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
