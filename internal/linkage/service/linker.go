package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"orglink/internal/linkage/models"
	"orglink/internal/linkage/normalize"
	"orglink/pkg/platform/sentinel"
	"orglink/pkg/platform/tx"
)

// Batch outcome labels.
const (
	batchAdded   = "added"
	batchUpdated = "updated"
	batchSkipped = "skipped"
	batchError   = "error"
)

// linkOutcome is what one subject's link run changed.
type linkOutcome struct {
	created   int
	replaced  int64
	unmatched []string
}

// LinkSubject replaces the subject's links with rows for every reference
// that resolves. The first saved row is primary. References resolving to an
// organization already linked in this call are skipped. Misses are recorded
// in the unmatched tracker. Returns the number of rows created.
func (s *Service) LinkSubject(ctx context.Context, subjectID uuid.UUID, refs []models.Reference) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	if subjectID == uuid.Nil {
		return 0, fmt.Errorf("subject id is required: %w", sentinel.ErrInvalidInput)
	}
	out, err := s.linkSubject(ctx, subjectID, refs)
	if err != nil {
		return 0, err
	}
	return out.created, nil
}

func (s *Service) linkSubject(ctx context.Context, subjectID uuid.UUID, refs []models.Reference) (linkOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "linkage.LinkSubject")
	defer span.End()
	span.SetAttributes(
		attribute.String("subject_id", subjectID.String()),
		attribute.Int("references", len(refs)),
	)

	start := time.Now()
	defer func() { s.metrics.ObserveLinkLatency(time.Since(start)) }()

	var out linkOutcome
	err := s.tx.RunInTx(tx.WithShardKey(ctx, subjectID.String()), func(txCtx context.Context) error {
		out = linkOutcome{}
		replaced, err := s.links.DeleteLinksForSubject(txCtx, subjectID)
		if err != nil {
			return fmt.Errorf("delete links for subject %s: %w", subjectID, err)
		}
		out.replaced = replaced

		linked := make(map[uuid.UUID]struct{}, len(refs))
		for i := range refs {
			ref := &refs[i]
			result, ok := s.resolveSafely(txCtx, subjectID, ref)
			if !ok {
				continue
			}
			if !result.Matched {
				if !normalize.IsBlank(ref.DisplayName) {
					out.unmatched = append(out.unmatched, ref.DisplayName)
				}
				continue
			}
			if _, dup := linked[result.OrganizationID]; dup {
				continue
			}
			row := models.LinkageRow{
				SubjectID:      subjectID,
				OrganizationID: result.OrganizationID,
				RawName:        rawName(ref),
				IsPrimary:      out.created == 0,
			}
			if err := s.links.SaveLink(txCtx, row); err != nil {
				return fmt.Errorf("save link for subject %s: %w", subjectID, err)
			}
			linked[result.OrganizationID] = struct{}{}
			out.created++
		}
		return nil
	})

	s.recordUnmatched(ctx, subjectID, out.unmatched)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "link subject")
		s.logger.ErrorContext(ctx, "failed to link subject",
			"subject_id", subjectID,
			"error", err,
		)
		return linkOutcome{unmatched: out.unmatched}, err
	}

	s.metrics.AddLinksCreated(out.created)
	span.SetAttributes(attribute.Int("links_created", out.created))
	s.logger.DebugContext(ctx, "subject linked",
		"subject_id", subjectID,
		"links_created", out.created,
		"links_replaced", out.replaced,
		"unmatched", len(out.unmatched),
	)
	return out, nil
}

// resolveSafely isolates a faulting reference so the rest of the subject
// still links.
func (s *Service) resolveSafely(ctx context.Context, subjectID uuid.UUID, ref *models.Reference) (result models.MatchResult, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.metrics.IncrementResolveError()
			s.logger.ErrorContext(ctx, "reference resolution failed",
				"subject_id", subjectID,
				"raw_name", ref.DisplayName,
				"panic", rec,
			)
			result, ok = models.MatchResult{}, false
		}
	}()
	return s.resolver.Resolve(ref), true
}

func (s *Service) recordUnmatched(ctx context.Context, subjectID uuid.UUID, names []string) {
	for _, name := range names {
		if err := s.tracker.Record(ctx, name); err != nil {
			s.logger.WarnContext(ctx, "failed to record unmatched name",
				"subject_id", subjectID,
				"raw_name", name,
				"error", err,
			)
		}
		s.logger.InfoContext(ctx, "no organization match",
			"subject_id", subjectID,
			"raw_name", name,
		)
		s.emitUnmatched(ctx, subjectID.String(), name)
	}
}

func rawName(ref *models.Reference) string {
	if !normalize.IsBlank(ref.DisplayName) {
		return ref.DisplayName
	}
	return ref.ShortName
}

// LinkBatch links many subjects with bounded concurrency and folds every
// outcome into one result. A failing subject never stops the others. Once
// ctx is done, subjects not yet started are counted as errors.
func (s *Service) LinkBatch(ctx context.Context, batch []models.SubjectReferences) models.SyncResult {
	ctx, span := s.tracer.Start(ctx, "linkage.LinkBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("subjects", len(batch)))

	var (
		mu     sync.Mutex
		result models.SyncResult
	)
	fold := func(subjectID uuid.UUID, out linkOutcome, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			result.Errors++
			result.ErrorMessages = append(result.ErrorMessages, fmt.Sprintf("subject %s: %v", subjectID, err))
			s.metrics.IncrementBatchSubject(batchError)
		case out.created == 0:
			result.Skipped++
			s.metrics.IncrementBatchSubject(batchSkipped)
		case out.replaced > 0:
			result.Updated++
			s.metrics.IncrementBatchSubject(batchUpdated)
		default:
			result.Added++
			s.metrics.IncrementBatchSubject(batchAdded)
		}
		result.LinksCreated += out.created
	}

	var g errgroup.Group
	g.SetLimit(s.batchConcurrency)
	for _, item := range batch {
		if err := ctx.Err(); err != nil {
			fold(item.SubjectID, linkOutcome{}, fmt.Errorf("not started: %w", err))
			continue
		}
		g.Go(func() error {
			out, err := s.linkBatchItem(ctx, item)
			fold(item.SubjectID, out, err)
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("added", result.Added),
		attribute.Int("updated", result.Updated),
		attribute.Int("skipped", result.Skipped),
		attribute.Int("errors", result.Errors),
	)
	s.logger.InfoContext(ctx, "batch linking finished",
		"subjects", len(batch),
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", result.Errors,
		"links_created", result.LinksCreated,
	)
	return result
}

func (s *Service) linkBatchItem(ctx context.Context, item models.SubjectReferences) (linkOutcome, error) {
	if len(item.References) == 0 {
		return linkOutcome{}, nil
	}
	if item.SubjectID == uuid.Nil {
		return linkOutcome{}, fmt.Errorf("subject id is required: %w", sentinel.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return linkOutcome{}, fmt.Errorf("not started: %w", err)
	}
	return s.linkSubject(ctx, item.SubjectID, item.References)
}
