// Package ports defines the interfaces the linkage service consumes.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks RegistrySource,LinkageStore,StoreTx,UnmatchedTracker,AuditPublisher

import (
	"context"

	"github.com/google/uuid"

	"orglink/internal/linkage/models"
	"orglink/pkg/platform/audit"
)

// RegistrySource loads the full organization list for a cache rebuild.
type RegistrySource interface {
	ListAllOrganizations(ctx context.Context) ([]models.Organization, error)
}

// LinkageStore persists subject-to-organization join rows.
type LinkageStore interface {
	// DeleteLinksForSubject removes every row for the subject and reports
	// how many were removed.
	DeleteLinksForSubject(ctx context.Context, subjectID uuid.UUID) (int64, error)

	// SaveLink inserts one row.
	SaveLink(ctx context.Context, row models.LinkageRow) error

	// ListLinksForSubject returns the subject's rows, primary first.
	ListLinksForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.LinkageRow, error)

	// CountDistinctLinkedSubjects counts subjects with at least one row.
	CountDistinctLinkedSubjects(ctx context.Context) (int64, error)

	// CountTotalSubjects counts every subject eligible for linking.
	CountTotalSubjects(ctx context.Context) (int64, error)
}

// StoreTx scopes a subject's delete and inserts into one unit of work.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UnmatchedTracker remembers display names that failed to resolve.
type UnmatchedTracker interface {
	Record(ctx context.Context, rawName string) error
	// List returns the recorded names in ascending order.
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

// AuditPublisher emits audit events for data quality operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
