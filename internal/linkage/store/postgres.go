package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"orglink/internal/linkage/models"
	"orglink/pkg/platform/tx"
)

// PostgresLinkageStore persists links in regulation_agencies. Statements run
// on the transaction carried by ctx when one is present.
type PostgresLinkageStore struct {
	db *sql.DB
}

// NewPostgresLinkageStore constructs a PostgreSQL-backed linkage store.
func NewPostgresLinkageStore(db *sql.DB) *PostgresLinkageStore {
	return &PostgresLinkageStore{db: db}
}

func (s *PostgresLinkageStore) DeleteLinksForSubject(ctx context.Context, subjectID uuid.UUID) (int64, error) {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM regulation_agencies WHERE regulation_id = $1`, subjectID)
	if err != nil {
		return 0, fmt.Errorf("delete links for subject: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete links rows affected: %w", err)
	}
	return n, nil
}

func (s *PostgresLinkageStore) SaveLink(ctx context.Context, row models.LinkageRow) error {
	query := `
		INSERT INTO regulation_agencies (regulation_id, organization_id, agency_name_raw, is_primary_agency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (regulation_id, organization_id) DO UPDATE SET
			agency_name_raw = EXCLUDED.agency_name_raw,
			is_primary_agency = EXCLUDED.is_primary_agency
	`
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, query,
		row.SubjectID, row.OrganizationID, row.RawName, row.IsPrimary)
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	return nil
}

func (s *PostgresLinkageStore) ListLinksForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.LinkageRow, error) {
	query := `
		SELECT regulation_id, organization_id, COALESCE(agency_name_raw, ''), is_primary_agency
		FROM regulation_agencies
		WHERE regulation_id = $1
		ORDER BY is_primary_agency DESC, created_at, organization_id
	`
	rows, err := tx.Conn(ctx, s.db).QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list links for subject: %w", err)
	}
	defer rows.Close()

	var out []models.LinkageRow
	for rows.Next() {
		var r models.LinkageRow
		if err := rows.Scan(&r.SubjectID, &r.OrganizationID, &r.RawName, &r.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return out, nil
}

func (s *PostgresLinkageStore) CountDistinctLinkedSubjects(ctx context.Context) (int64, error) {
	var n int64
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT regulation_id) FROM regulation_agencies`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count linked subjects: %w", err)
	}
	return n, nil
}

func (s *PostgresLinkageStore) CountTotalSubjects(ctx context.Context) (int64, error) {
	var n int64
	err := tx.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM regulations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return n, nil
}

// PostgresRegistrySource reads government_organizations.
type PostgresRegistrySource struct {
	db *sql.DB
}

// NewPostgresRegistrySource constructs a PostgreSQL-backed registry source.
func NewPostgresRegistrySource(db *sql.DB) *PostgresRegistrySource {
	return &PostgresRegistrySource{db: db}
}

func (s *PostgresRegistrySource) ListAllOrganizations(ctx context.Context) ([]models.Organization, error) {
	query := `
		SELECT id, official_name, COALESCE(acronym, ''), former_names,
			federal_register_agency_id, COALESCE(org_type, ''), COALESCE(branch, ''),
			COALESCE(website_url, ''), parent_id
		FROM government_organizations
		ORDER BY official_name, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []models.Organization
	for rows.Next() {
		var (
			org        models.Organization
			former     pq.StringArray
			externalID sql.NullInt32
			parentID   uuid.NullUUID
		)
		if err := rows.Scan(&org.ID, &org.OfficialName, &org.Acronym, &former,
			&externalID, &org.OrgType, &org.Branch, &org.WebsiteURL, &parentID); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		org.FormerNames = []string(former)
		if externalID.Valid {
			v := int(externalID.Int32)
			org.ExternalID = &v
		}
		if parentID.Valid {
			id := parentID.UUID
			org.ParentID = &id
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return out, nil
}

// SaveOrganization upserts an organization. Used by seeding and tests.
func (s *PostgresRegistrySource) SaveOrganization(ctx context.Context, org models.Organization) error {
	query := `
		INSERT INTO government_organizations (
			id, official_name, acronym, former_names, federal_register_agency_id,
			org_type, branch, website_url, parent_id
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9)
		ON CONFLICT (id) DO UPDATE SET
			official_name = EXCLUDED.official_name,
			acronym = EXCLUDED.acronym,
			former_names = EXCLUDED.former_names,
			federal_register_agency_id = EXCLUDED.federal_register_agency_id,
			org_type = EXCLUDED.org_type,
			branch = EXCLUDED.branch,
			website_url = EXCLUDED.website_url,
			parent_id = EXCLUDED.parent_id
	`
	former := pq.StringArray(org.FormerNames)
	if former == nil {
		former = pq.StringArray{}
	}
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, query,
		org.ID, org.OfficialName, org.Acronym, former, org.ExternalID,
		org.OrgType, org.Branch, org.WebsiteURL, org.ParentID)
	if err != nil {
		return fmt.Errorf("save organization: %w", err)
	}
	return nil
}
