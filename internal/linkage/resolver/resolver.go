// Package resolver maps free-text organization references to registry
// identifiers through an ordered cascade of matching strategies.
package resolver

import (
	"log/slog"

	"github.com/google/uuid"

	"orglink/internal/linkage/alias"
	"orglink/internal/linkage/fuzzy"
	"orglink/internal/linkage/metrics"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/normalize"
	"orglink/internal/linkage/registry"
)

// outcomeUnmatched labels misses in the resolution counter.
const outcomeUnmatched = "unmatched"

// Input is what every strategy sees for one reference.
type Input struct {
	Ref       *models.Reference
	Name      string // normalized display name
	ShortName string // normalized short name
	Snapshot  *registry.Snapshot
}

// Strategy is one step of the cascade. Match must not mutate its input.
type Strategy struct {
	Name models.Strategy
	// NeedsName steps are skipped, and the cascade ends, when the display
	// name is blank.
	NeedsName bool
	Match     func(in Input) (uuid.UUID, float64, bool)
}

// Config toggles the optional fuzzy step. A zero FuzzyThreshold means
// fuzzy.DefaultThreshold.
type Config struct {
	FuzzyEnabled   bool
	FuzzyThreshold float64
}

// DefaultConfig enables fuzzy matching at fuzzy.DefaultThreshold.
func DefaultConfig() Config {
	return Config{FuzzyEnabled: true, FuzzyThreshold: fuzzy.DefaultThreshold}
}

func (c Config) threshold() float64 {
	if c.FuzzyThreshold == 0 {
		return fuzzy.DefaultThreshold
	}
	return c.FuzzyThreshold
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver runs the cascade against the cache's current snapshot.
type Resolver struct {
	cache      *registry.Cache
	aliases    *alias.Table
	matcher    *fuzzy.Matcher
	strategies []Strategy
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New builds a resolver. A nil alias table disables the manual alias step.
func New(cache *registry.Cache, aliases *alias.Table, cfg Config, opts ...Option) *Resolver {
	if cache == nil {
		cache = registry.NewCache()
	}
	r := &Resolver{
		cache:   cache,
		aliases: aliases,
		matcher: fuzzy.NewMatcher(cfg.threshold()),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.strategies = []Strategy{
		{Name: models.StrategyExternalID, Match: matchExternalID},
		{Name: models.StrategyName, NeedsName: true, Match: matchName},
		{Name: models.StrategyAcronym, NeedsName: true, Match: matchAcronym},
		{Name: models.StrategyManualAlias, NeedsName: true, Match: r.matchAlias},
	}
	if cfg.FuzzyEnabled {
		r.strategies = append(r.strategies, Strategy{
			Name: models.StrategyFuzzy, NeedsName: true, Match: r.matchFuzzy,
		})
	}
	return r
}

// Cascade lists the active strategies in evaluation order.
func (r *Resolver) Cascade() []models.Strategy {
	names := make([]models.Strategy, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name
	}
	return names
}

// Resolve returns the first strategy hit, or an unmatched result.
func (r *Resolver) Resolve(ref *models.Reference) models.MatchResult {
	result := r.resolve(ref)
	if result.Matched {
		r.metrics.IncrementResolution(string(result.Strategy))
	} else {
		r.metrics.IncrementResolution(outcomeUnmatched)
	}
	return result
}

func (r *Resolver) resolve(ref *models.Reference) models.MatchResult {
	if ref == nil {
		return models.Unmatched()
	}
	in := Input{
		Ref:       ref,
		Name:      normalize.Name(ref.DisplayName),
		ShortName: normalize.Name(ref.ShortName),
		Snapshot:  r.cache.Snapshot(),
	}
	for _, s := range r.strategies {
		if s.NeedsName && in.Name == "" {
			break
		}
		if id, confidence, ok := s.Match(in); ok {
			r.logger.Debug("reference resolved",
				"raw_name", ref.DisplayName,
				"strategy", string(s.Name),
				"organization_id", id,
			)
			return models.Matched(id, confidence, s.Name)
		}
	}
	return models.Unmatched()
}

// Suggest returns up to limit distinct official names whose indexed names
// score at least fuzzy.SuggestionFloor against name. It runs whether or not
// the fuzzy step is enabled.
func (r *Resolver) Suggest(name string, limit int) []string {
	key := normalize.Name(name)
	if key == "" || limit <= 0 {
		return nil
	}
	snap := r.cache.Snapshot()
	seen := make(map[string]struct{}, limit)
	var out []string
	for _, c := range fuzzy.Rank(key, snap.Names(), fuzzy.SuggestionFloor) {
		official, ok := snap.OfficialName(c.Name)
		if !ok {
			continue
		}
		if _, dup := seen[official]; dup {
			continue
		}
		seen[official] = struct{}{}
		out = append(out, official)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Organization looks up a record in the current snapshot.
func (r *Resolver) Organization(id uuid.UUID) (models.Organization, bool) {
	return r.cache.Snapshot().Organization(id)
}

func matchExternalID(in Input) (uuid.UUID, float64, bool) {
	if in.Ref.ExternalID == nil {
		return uuid.Nil, 0, false
	}
	id, ok := in.Snapshot.ByExternalID(*in.Ref.ExternalID)
	return id, 1.0, ok
}

func matchName(in Input) (uuid.UUID, float64, bool) {
	id, ok := in.Snapshot.ByName(in.Name)
	return id, 1.0, ok
}

func matchAcronym(in Input) (uuid.UUID, float64, bool) {
	if in.ShortName == "" {
		return uuid.Nil, 0, false
	}
	id, ok := in.Snapshot.ByAcronym(in.ShortName)
	return id, 1.0, ok
}

func (r *Resolver) matchAlias(in Input) (uuid.UUID, float64, bool) {
	acronym, ok := r.aliases.Lookup(in.Name)
	if !ok {
		return uuid.Nil, 0, false
	}
	id, ok := in.Snapshot.ByAcronym(acronym)
	return id, 1.0, ok
}

func (r *Resolver) matchFuzzy(in Input) (uuid.UUID, float64, bool) {
	best, ok := r.matcher.Best(in.Name, in.Snapshot.Names())
	if !ok {
		return uuid.Nil, 0, false
	}
	id, ok := in.Snapshot.ByName(best.Name)
	return id, best.Score, ok
}
