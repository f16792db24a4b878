package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"orglink/internal/linkage/models"
)

type fixtureOrg struct {
	ID           string   `yaml:"id"`
	OfficialName string   `yaml:"official_name"`
	Acronym      string   `yaml:"acronym"`
	FormerNames  []string `yaml:"former_names"`
	ExternalID   *int     `yaml:"external_id"`
	OrgType      string   `yaml:"org_type"`
	Branch       string   `yaml:"branch"`
	WebsiteURL   string   `yaml:"website_url"`
}

type fixtureFile struct {
	Organizations []fixtureOrg `yaml:"organizations"`
}

// LoadRegistryFixture reads organizations from a YAML fixture of the form
//
//	organizations:
//	  - id: 6f1c1f0e-8a3b-4d0c-9a57-0d4c4d0f0001
//	    official_name: Environmental Protection Agency
//	    acronym: EPA
//	    external_id: 145
//
// for runs without a database. Entries without an id get a random one.
func LoadRegistryFixture(path string) ([]models.Organization, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry fixture: %w", err)
	}
	return ParseRegistryFixture(raw)
}

// ParseRegistryFixture is LoadRegistryFixture over an in-memory document.
func ParseRegistryFixture(raw []byte) ([]models.Organization, error) {
	var doc fixtureFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse registry fixture: %w", err)
	}
	orgs := make([]models.Organization, 0, len(doc.Organizations))
	for i, f := range doc.Organizations {
		if strings.TrimSpace(f.OfficialName) == "" {
			return nil, fmt.Errorf("registry fixture entry %d: official_name is required", i)
		}
		id := uuid.New()
		if f.ID != "" {
			parsed, err := uuid.Parse(f.ID)
			if err != nil {
				return nil, fmt.Errorf("registry fixture entry %d: %w", i, err)
			}
			id = parsed
		}
		orgs = append(orgs, models.Organization{
			ID:           id,
			OfficialName: f.OfficialName,
			Acronym:      f.Acronym,
			FormerNames:  f.FormerNames,
			ExternalID:   f.ExternalID,
			OrgType:      f.OrgType,
			Branch:       f.Branch,
			WebsiteURL:   f.WebsiteURL,
		})
	}
	return orgs, nil
}
