package models

import (
	"github.com/google/uuid"
)

// Strategy names the cascade step that produced a match.
type Strategy string

const (
	StrategyExternalID  Strategy = "external_id"
	StrategyName        Strategy = "name"
	StrategyAcronym     Strategy = "acronym"
	StrategyManualAlias Strategy = "manual_alias"
	StrategyFuzzy       Strategy = "fuzzy"
)

// Organization is the canonical record every external reference should
// resolve to. The resolver only reads ID, OfficialName, Acronym, FormerNames
// and ExternalID; the remaining fields ride along for enrichment.
type Organization struct {
	ID           uuid.UUID  `json:"id"`
	OfficialName string     `json:"official_name"`
	Acronym      string     `json:"acronym,omitempty"`
	FormerNames  []string   `json:"former_names,omitempty"`
	ExternalID   *int       `json:"external_id,omitempty"`
	OrgType      string     `json:"org_type,omitempty"`
	Branch       string     `json:"branch,omitempty"`
	WebsiteURL   string     `json:"website_url,omitempty"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
}

// Reference is a raw organization mention from an external source.
type Reference struct {
	DisplayName string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	ExternalID  *int   `json:"id,omitempty"`
}

// MatchResult is the outcome of resolving one reference. A zero value is an
// unmatched result.
type MatchResult struct {
	Matched        bool      `json:"matched"`
	OrganizationID uuid.UUID `json:"organization_id,omitempty"`
	Confidence     float64   `json:"confidence"`
	Strategy       Strategy  `json:"strategy,omitempty"`
	Suggestions    []string  `json:"suggestions,omitempty"`
}

// Matched builds a successful result.
func Matched(orgID uuid.UUID, confidence float64, strategy Strategy) MatchResult {
	return MatchResult{
		Matched:        true,
		OrganizationID: orgID,
		Confidence:     confidence,
		Strategy:       strategy,
	}
}

// Unmatched builds a failed result carrying optional near-miss names.
func Unmatched(suggestions ...string) MatchResult {
	return MatchResult{Suggestions: suggestions}
}

// LinkageRow joins one subject to one organization.
type LinkageRow struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	RawName        string    `json:"raw_name"`
	IsPrimary      bool      `json:"is_primary"`
}

// SubjectReferences is one unit of batch linking work.
type SubjectReferences struct {
	SubjectID  uuid.UUID
	References []Reference
}

// SyncResult accumulates per-subject outcomes of a batch run.
type SyncResult struct {
	Added         int      `json:"added"`
	Updated       int      `json:"updated"`
	Skipped       int      `json:"skipped"`
	Errors        int      `json:"errors"`
	LinksCreated  int      `json:"links_created"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

// Total is the number of subjects folded into the result.
func (r SyncResult) Total() int {
	return r.Added + r.Updated + r.Skipped + r.Errors
}
