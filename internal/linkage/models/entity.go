package models

import (
	"strings"

	"github.com/google/uuid"
)

// EntityTypeGovernmentOrg is the only entity type the validation path handles.
const EntityTypeGovernmentOrg = "government_org"

// Entity is a generic extracted record that may name a government body.
type Entity struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	EntityType      string         `json:"entity_type"`
	Confidence      float64        `json:"confidence"`
	Verified        bool           `json:"verified"`
	GovernmentOrgID *uuid.UUID     `json:"government_org_id,omitempty"`
	Properties      map[string]any `json:"properties,omitempty"`
}

// IsGovernmentOrg reports whether the entity type is eligible for validation.
func (e *Entity) IsGovernmentOrg() bool {
	return IsGovernmentOrgType(e.EntityType)
}

// IsLinked reports whether the entity was already verified against the registry.
func (e *Entity) IsLinked() bool {
	return e.Verified && e.GovernmentOrgID != nil
}

// IsGovernmentOrgType compares case-insensitively against EntityTypeGovernmentOrg.
func IsGovernmentOrgType(entityType string) bool {
	return strings.EqualFold(strings.TrimSpace(entityType), EntityTypeGovernmentOrg)
}

// ValidationResult is the single-name resolution outcome with the matched
// organization attached.
type ValidationResult struct {
	Applicable   bool          `json:"applicable"`
	Match        MatchResult   `json:"match"`
	Organization *Organization `json:"organization,omitempty"`
}

// Valid reports whether an organization was found.
func (v ValidationResult) Valid() bool {
	return v.Applicable && v.Match.Matched && v.Organization != nil
}
