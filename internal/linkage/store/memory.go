package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"orglink/internal/linkage/models"
)

// InMemoryLinkageStore keeps join rows per subject in insertion order.
type InMemoryLinkageStore struct {
	mu       sync.RWMutex
	rows     map[uuid.UUID][]models.LinkageRow
	subjects map[uuid.UUID]struct{}
}

// NewInMemoryLinkageStore returns an empty store.
func NewInMemoryLinkageStore() *InMemoryLinkageStore {
	return &InMemoryLinkageStore{
		rows:     make(map[uuid.UUID][]models.LinkageRow),
		subjects: make(map[uuid.UUID]struct{}),
	}
}

// AddSubjects registers subjects for CountTotalSubjects. Subjects that get
// linked are registered implicitly.
func (s *InMemoryLinkageStore) AddSubjects(ids ...uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.subjects[id] = struct{}{}
	}
}

// DeleteLinksForSubject removes the subject's rows. Inside a ShardedTx for
// the same subject the delete is staged until commit.
func (s *InMemoryLinkageStore) DeleteLinksForSubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	if st := s.stagedFor(ctx, subjectID); st != nil {
		n := len(st.rows)
		st.rows = nil
		st.dirty = true
		return int64(n), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rows[subjectID])
	delete(s.rows, subjectID)
	return int64(n), nil
}

// SaveLink appends a row. A second row for the same organization replaces
// the first, matching the composite key of the SQL table.
func (s *InMemoryLinkageStore) SaveLink(ctx context.Context, row models.LinkageRow) error {
	if st := s.stagedFor(ctx, row.SubjectID); st != nil {
		st.rows = upsertRow(st.rows, row)
		st.dirty = true
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[row.SubjectID] = struct{}{}
	s.rows[row.SubjectID] = upsertRow(s.rows[row.SubjectID], row)
	return nil
}

func upsertRow(rows []models.LinkageRow, row models.LinkageRow) []models.LinkageRow {
	for i := range rows {
		if rows[i].OrganizationID == row.OrganizationID {
			rows[i] = row
			return rows
		}
	}
	return append(rows, row)
}

// ListLinksForSubject returns a copy with the primary row first.
// Inside a ShardedTx for the subject it reads the staged rows.
func (s *InMemoryLinkageStore) ListLinksForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.LinkageRow, error) {
	var rows []models.LinkageRow
	if st := s.stagedFor(ctx, subjectID); st != nil {
		rows = st.rows
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
		rows = s.rows[subjectID]
	}
	out := make([]models.LinkageRow, 0, len(rows))
	for _, r := range rows {
		if r.IsPrimary {
			out = append(out, r)
		}
	}
	for _, r := range rows {
		if !r.IsPrimary {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryLinkageStore) CountDistinctLinkedSubjects(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, rows := range s.rows {
		if len(rows) > 0 {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryLinkageStore) CountTotalSubjects(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.subjects)), nil
}

// stagedLinks holds one subject's uncommitted rows for a ShardedTx.
type stagedLinks struct {
	store     *InMemoryLinkageStore
	subjectID uuid.UUID
	rows      []models.LinkageRow
	dirty     bool
}

type stagedKey struct{}

func (s *InMemoryLinkageStore) stage(ctx context.Context, subjectID uuid.UUID) (context.Context, *stagedLinks) {
	s.mu.RLock()
	rows := append([]models.LinkageRow(nil), s.rows[subjectID]...)
	s.mu.RUnlock()
	st := &stagedLinks{store: s, subjectID: subjectID, rows: rows}
	return context.WithValue(ctx, stagedKey{}, st), st
}

func (s *InMemoryLinkageStore) stagedFor(ctx context.Context, subjectID uuid.UUID) *stagedLinks {
	st, ok := ctx.Value(stagedKey{}).(*stagedLinks)
	if !ok || st.store != s || st.subjectID != subjectID {
		return nil
	}
	return st
}

// publish swaps the staged rows in under a single lock.
func (s *InMemoryLinkageStore) publish(st *stagedLinks) {
	if !st.dirty {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(st.rows) == 0 {
		delete(s.rows, st.subjectID)
		return
	}
	s.subjects[st.subjectID] = struct{}{}
	s.rows[st.subjectID] = st.rows
}

// InMemoryRegistrySource serves a fixed organization list.
type InMemoryRegistrySource struct {
	mu   sync.RWMutex
	orgs []models.Organization
}

// NewInMemoryRegistrySource seeds the source with orgs.
func NewInMemoryRegistrySource(orgs ...models.Organization) *InMemoryRegistrySource {
	return &InMemoryRegistrySource{orgs: append([]models.Organization(nil), orgs...)}
}

// Replace swaps the organization list.
func (s *InMemoryRegistrySource) Replace(orgs []models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs = append([]models.Organization(nil), orgs...)
}

func (s *InMemoryRegistrySource) ListAllOrganizations(_ context.Context) ([]models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Organization(nil), s.orgs...), nil
}
