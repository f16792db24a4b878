package service

import (
	"context"

	"orglink/internal/linkage/models"
)

// Validate resolves one free-text name for an extracted record. Records not
// of the government organization type are not applicable. The name is also
// tried as an acronym. On a miss the result carries up to three near-miss
// official names for review.
func (s *Service) Validate(ctx context.Context, displayName, entityType string) models.ValidationResult {
	if !models.IsGovernmentOrgType(entityType) {
		return models.ValidationResult{}
	}
	_, span := s.tracer.Start(ctx, "linkage.Validate")
	defer span.End()

	ref := &models.Reference{DisplayName: displayName, ShortName: displayName}
	result := models.ValidationResult{
		Applicable: true,
		Match:      s.resolver.Resolve(ref),
	}
	if result.Match.Matched {
		if org, ok := s.resolver.Organization(result.Match.OrganizationID); ok {
			result.Organization = &org
		}
		return result
	}
	result.Match.Suggestions = s.resolver.Suggest(displayName, maxSuggestions)
	s.logger.DebugContext(ctx, "entity validation found no organization",
		"raw_name", displayName,
		"suggestions", len(result.Match.Suggestions),
	)
	return result
}

// ValidateEntity validates and, on a match, enriches entity in place.
// Entities already verified and linked, and non-government types, are
// skipped and yield a result with Applicable false.
func (s *Service) ValidateEntity(ctx context.Context, entity *models.Entity) models.ValidationResult {
	if entity == nil || !entity.IsGovernmentOrg() || entity.IsLinked() {
		return models.ValidationResult{}
	}
	result := s.Validate(ctx, entity.Name, entity.EntityType)
	if EnrichEntity(entity, result) {
		s.logger.DebugContext(ctx, "entity enriched with government organization",
			"entity_id", entity.ID,
			"organization_id", result.Match.OrganizationID,
			"strategy", string(result.Match.Strategy),
		)
	}
	return result
}

// EnrichEntity copies the matched organization onto entity: official name,
// verified flag, back-reference and descriptive properties. Confidence is
// raised to the match confidence, never lowered. Returns false and leaves
// entity untouched when result holds no organization.
func EnrichEntity(entity *models.Entity, result models.ValidationResult) bool {
	if entity == nil || !result.Valid() {
		return false
	}
	org := result.Organization
	orgID := org.ID

	entity.Name = org.OfficialName
	entity.Verified = true
	entity.GovernmentOrgID = &orgID
	if result.Match.Confidence > entity.Confidence {
		entity.Confidence = result.Match.Confidence
	}

	if entity.Properties == nil {
		entity.Properties = make(map[string]any)
	}
	setIfPresent(entity.Properties, "acronym", org.Acronym)
	setIfPresent(entity.Properties, "website", org.WebsiteURL)
	setIfPresent(entity.Properties, "orgType", org.OrgType)
	setIfPresent(entity.Properties, "branch", org.Branch)
	return true
}

func setIfPresent(props map[string]any, key, value string) {
	if value != "" {
		props[key] = value
	}
}

// Resolve runs the cascade for one reference without writing links or
// recording misses. The organization is nil on a miss.
func (s *Service) Resolve(ctx context.Context, ref models.Reference) (models.MatchResult, *models.Organization) {
	_, span := s.tracer.Start(ctx, "linkage.Resolve")
	defer span.End()

	result := s.resolver.Resolve(&ref)
	if !result.Matched {
		return result, nil
	}
	org, ok := s.resolver.Organization(result.OrganizationID)
	if !ok {
		return result, nil
	}
	return result, &org
}
