package unmatched

import (
	"context"
	"log/slog"
	"sort"

	"orglink/internal/linkage/ports"
	"orglink/pkg/platform/circuit"
)

// FallbackTracker writes to a primary tracker and diverts to a local one
// once the primary has failed enough times in a row. Names recorded during
// an outage stay visible through List and Count until cleared.
type FallbackTracker struct {
	primary  ports.UnmatchedTracker
	fallback *InMemoryTracker
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// FallbackOption configures a FallbackTracker.
type FallbackOption func(*FallbackTracker)

// WithBreaker replaces the default breaker.
func WithBreaker(b *circuit.Breaker) FallbackOption {
	return func(t *FallbackTracker) {
		if b != nil {
			t.breaker = b
		}
	}
}

// WithLogger sets the logger used for circuit transitions.
func WithLogger(logger *slog.Logger) FallbackOption {
	return func(t *FallbackTracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewFallback wraps primary.
func NewFallback(primary ports.UnmatchedTracker, opts ...FallbackOption) *FallbackTracker {
	t := &FallbackTracker{
		primary:  primary,
		fallback: NewInMemory(),
		breaker:  circuit.New("unmatched-tracker"),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record tries the primary first. Below the failure threshold a primary
// error is returned; once the circuit opens the name goes to the fallback.
func (t *FallbackTracker) Record(ctx context.Context, rawName string) error {
	err := t.primary.Record(ctx, rawName)
	if err == nil {
		t.success(ctx)
		return nil
	}
	if !t.failure(ctx, err) {
		return err
	}
	return t.fallback.Record(ctx, rawName)
}

// List merges primary and fallback names. When the primary is unreachable
// only fallback names are returned.
func (t *FallbackTracker) List(ctx context.Context) ([]string, error) {
	local, _ := t.fallback.List(ctx)
	remote, err := t.primary.List(ctx)
	if err != nil {
		if !t.failure(ctx, err) {
			return nil, err
		}
		return local, nil
	}
	t.success(ctx)
	if len(local) == 0 {
		return remote, nil
	}
	return union(remote, local), nil
}

// Count is the size of List.
func (t *FallbackTracker) Count(ctx context.Context) (int64, error) {
	if n, _ := t.fallback.Count(ctx); n == 0 {
		count, err := t.primary.Count(ctx)
		if err != nil {
			if !t.failure(ctx, err) {
				return 0, err
			}
			return 0, nil
		}
		t.success(ctx)
		return count, nil
	}
	names, err := t.List(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(names)), nil
}

// Clear empties the primary, then the fallback. When the primary fails
// nothing is cleared, so a retry sees the same names.
func (t *FallbackTracker) Clear(ctx context.Context) error {
	if err := t.primary.Clear(ctx); err != nil {
		t.failure(ctx, err)
		return err
	}
	t.success(ctx)
	return t.fallback.Clear(ctx)
}

// State exposes the breaker position for health reporting.
func (t *FallbackTracker) State() circuit.State {
	return t.breaker.State()
}

func (t *FallbackTracker) failure(ctx context.Context, err error) bool {
	useFallback, change := t.breaker.RecordFailure()
	if change.Opened {
		t.logger.WarnContext(ctx, "unmatched tracker circuit opened, using local fallback",
			"breaker", t.breaker.Name(),
			"error", err,
		)
	}
	return useFallback
}

func (t *FallbackTracker) success(ctx context.Context) {
	if _, change := t.breaker.RecordSuccess(); change.Closed {
		t.logger.InfoContext(ctx, "unmatched tracker circuit closed",
			"breaker", t.breaker.Name(),
		)
	}
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
