// Package registry holds the in-memory indices the resolver reads.
//
// A Snapshot is built once and never mutated. Cache publishes snapshots
// through an atomic pointer, so readers see either the previous or the new
// indices in full while a rebuild is in flight.
package registry

import (
	"sort"
	"sync/atomic"

	"github.com/google/uuid"

	"orglink/internal/linkage/models"
	"orglink/internal/linkage/normalize"
)

// Sizes reports the entry count of each index.
type Sizes struct {
	Names       int `json:"names"`
	Acronyms    int `json:"acronyms"`
	ExternalIDs int `json:"external_ids"`
}

// Snapshot is an immutable set of lookup indices over the organization list.
type Snapshot struct {
	names       map[string]uuid.UUID
	acronyms    map[string]uuid.UUID
	externalIDs map[int]uuid.UUID
	orgs        map[uuid.UUID]models.Organization
	sortedNames []string
}

var emptySnapshot = &Snapshot{
	names:       map[string]uuid.UUID{},
	acronyms:    map[string]uuid.UUID{},
	externalIDs: map[int]uuid.UUID{},
	orgs:        map[uuid.UUID]models.Organization{},
}

// Build indexes orgs. Later organizations overwrite earlier ones on key
// collisions. Blank official names are not indexed by name.
func Build(orgs []models.Organization) *Snapshot {
	s := &Snapshot{
		names:       make(map[string]uuid.UUID, len(orgs)),
		acronyms:    make(map[string]uuid.UUID, len(orgs)),
		externalIDs: make(map[int]uuid.UUID, len(orgs)),
		orgs:        make(map[uuid.UUID]models.Organization, len(orgs)),
	}
	for _, org := range orgs {
		s.orgs[org.ID] = org
		if name := normalize.Name(org.OfficialName); name != "" {
			s.names[name] = org.ID
			for _, former := range org.FormerNames {
				if key := normalize.Name(former); key != "" {
					s.names[key] = org.ID
				}
			}
		}
		if acronym := normalize.Name(org.Acronym); acronym != "" {
			s.acronyms[acronym] = org.ID
		}
		if org.ExternalID != nil {
			s.externalIDs[*org.ExternalID] = org.ID
		}
	}
	s.sortedNames = make([]string, 0, len(s.names))
	for name := range s.names {
		s.sortedNames = append(s.sortedNames, name)
	}
	sort.Strings(s.sortedNames)
	return s
}

// ByName looks up an already-normalized official or former name.
func (s *Snapshot) ByName(name string) (uuid.UUID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// ByAcronym looks up an already-normalized acronym.
func (s *Snapshot) ByAcronym(acronym string) (uuid.UUID, bool) {
	id, ok := s.acronyms[acronym]
	return id, ok
}

// ByExternalID looks up a source-specific numeric identifier.
func (s *Snapshot) ByExternalID(id int) (uuid.UUID, bool) {
	orgID, ok := s.externalIDs[id]
	return orgID, ok
}

// Organization returns the indexed record for id.
func (s *Snapshot) Organization(id uuid.UUID) (models.Organization, bool) {
	org, ok := s.orgs[id]
	return org, ok
}

// Names returns every indexed name in ascending order. Callers must not
// modify the slice.
func (s *Snapshot) Names() []string {
	return s.sortedNames
}

// OfficialName returns the display form of the organization a name key
// points at.
func (s *Snapshot) OfficialName(nameKey string) (string, bool) {
	id, ok := s.names[nameKey]
	if !ok {
		return "", false
	}
	org, ok := s.orgs[id]
	if !ok {
		return "", false
	}
	return org.OfficialName, true
}

// Sizes returns index entry counts.
func (s *Snapshot) Sizes() Sizes {
	return Sizes{
		Names:       len(s.names),
		Acronyms:    len(s.acronyms),
		ExternalIDs: len(s.externalIDs),
	}
}

// Cache publishes the current snapshot.
type Cache struct {
	current atomic.Pointer[Snapshot]
	built   atomic.Bool
}

// NewCache returns a cache holding an empty snapshot.
func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(emptySnapshot)
	return c
}

// Rebuild indexes orgs and swaps the new snapshot in.
func (c *Cache) Rebuild(orgs []models.Organization) Sizes {
	next := Build(orgs)
	c.current.Store(next)
	c.built.Store(true)
	return next.Sizes()
}

// Snapshot returns the snapshot current at the time of the call.
func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

// Sizes reports the current snapshot's index sizes.
func (c *Cache) Sizes() Sizes {
	return c.Snapshot().Sizes()
}

// Ready reports whether Rebuild has completed at least once.
func (c *Cache) Ready() bool {
	return c.built.Load()
}
