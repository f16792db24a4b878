package handler

import (
	"github.com/google/uuid"

	"orglink/internal/linkage/models"
)

// UnmatchedResponse lists unmatched display names.
type UnmatchedResponse struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
}

// StatsResponse adds the target check to the raw statistics.
type StatsResponse struct {
	models.LinkageStatistics
	Target      float64 `json:"target"`
	MeetsTarget bool    `json:"meets_target"`
}

// ResolveResponse carries the match and, on success, the organization.
type ResolveResponse struct {
	models.MatchResult
	Organization *models.Organization `json:"organization,omitempty"`
}

// LinkResponse reports rows written for one subject.
type LinkResponse struct {
	SubjectID    uuid.UUID `json:"subject_id"`
	LinksCreated int       `json:"links_created"`
}

// LinksResponse lists a subject's stored rows.
type LinksResponse struct {
	SubjectID uuid.UUID           `json:"subject_id"`
	Links     []models.LinkageRow `json:"links"`
}
