package handler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"orglink/internal/linkage/models"
	"orglink/pkg/platform/sentinel"
)

// maxReferences bounds references per subject in one request.
const maxReferences = 200

// maxBatchSubjects bounds subjects per batch request.
const maxBatchSubjects = 1000

// ResolveRequest is the body of POST /admin/linkage/resolve.
type ResolveRequest struct {
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	ExternalID *int   `json:"id"`
}

func (r *ResolveRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request body is required: %w", sentinel.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Name) == "" && r.ExternalID == nil {
		return fmt.Errorf("name or id is required: %w", sentinel.ErrInvalidInput)
	}
	return nil
}

func (r *ResolveRequest) Reference() models.Reference {
	return models.Reference{DisplayName: r.Name, ShortName: r.ShortName, ExternalID: r.ExternalID}
}

// ValidateRequest is the body of POST /admin/linkage/validate.
type ValidateRequest struct {
	Name       string `json:"name"`
	EntityType string `json:"entity_type"`
}

func (r *ValidateRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request body is required: %w", sentinel.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required: %w", sentinel.ErrInvalidInput)
	}
	if strings.TrimSpace(r.EntityType) == "" {
		r.EntityType = models.EntityTypeGovernmentOrg
	}
	return nil
}

// LinkRequest is the body of PUT /admin/linkage/subjects/{subjectID}/links.
type LinkRequest struct {
	References []models.Reference `json:"references"`
}

func (r *LinkRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request body is required: %w", sentinel.ErrInvalidInput)
	}
	if len(r.References) > maxReferences {
		return fmt.Errorf("at most %d references per subject: %w", maxReferences, sentinel.ErrInvalidInput)
	}
	return nil
}

// BatchSubject is one entry of a batch request.
type BatchSubject struct {
	SubjectID  uuid.UUID          `json:"subject_id"`
	References []models.Reference `json:"references"`
}

// BatchRequest is the body of POST /admin/linkage/batch.
type BatchRequest struct {
	Subjects []BatchSubject `json:"subjects"`
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request body is required: %w", sentinel.ErrInvalidInput)
	}
	if len(r.Subjects) == 0 {
		return fmt.Errorf("subjects are required: %w", sentinel.ErrInvalidInput)
	}
	if len(r.Subjects) > maxBatchSubjects {
		return fmt.Errorf("at most %d subjects per batch: %w", maxBatchSubjects, sentinel.ErrInvalidInput)
	}
	for _, s := range r.Subjects {
		if len(s.References) > maxReferences {
			return fmt.Errorf("at most %d references per subject: %w", maxReferences, sentinel.ErrInvalidInput)
		}
	}
	return nil
}

func (r *BatchRequest) Batch() []models.SubjectReferences {
	out := make([]models.SubjectReferences, len(r.Subjects))
	for i, s := range r.Subjects {
		out[i] = models.SubjectReferences{SubjectID: s.SubjectID, References: s.References}
	}
	return out
}
