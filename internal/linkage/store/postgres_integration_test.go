//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"orglink/internal/linkage/models"
	"orglink/internal/linkage/store"
	"orglink/pkg/platform/tx"
	"orglink/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	links    *store.PostgresLinkageStore
	source   *store.PostgresRegistrySource
	tx       *tx.SQLTx
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(s.postgres.Exec(context.Background(), store.Schema))
	s.links = store.NewPostgresLinkageStore(s.postgres.DB)
	s.source = store.NewPostgresRegistrySource(s.postgres.DB)
	s.tx = tx.NewSQLTx(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	// Truncate in dependency order
	err := s.postgres.TruncateTables(context.Background(),
		"regulation_agencies", "regulations", "government_organizations")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedRegulation(ctx context.Context) uuid.UUID {
	id := uuid.New()
	s.Require().NoError(s.postgres.Exec(ctx,
		`INSERT INTO regulations (id, document_number) VALUES ($1, $2)`, id, "DOC-"+id.String()))
	return id
}

func (s *PostgresStoreSuite) seedOrg(ctx context.Context, name, acronym string, externalID *int, former ...string) models.Organization {
	org := models.Organization{
		ID:           uuid.New(),
		OfficialName: name,
		Acronym:      acronym,
		FormerNames:  former,
		ExternalID:   externalID,
		OrgType:      "independent_agency",
		Branch:       "executive",
	}
	s.Require().NoError(s.source.SaveOrganization(ctx, org))
	return org
}

func (s *PostgresStoreSuite) TestRegistrySourceRoundTrip() {
	ctx := context.Background()
	id := 145
	epa := s.seedOrg(ctx, "Environmental Protection Agency", "EPA", &id)
	dhs := s.seedOrg(ctx, "Department of Homeland Security", "", nil, "Office of Homeland Security")

	orgs, err := s.source.ListAllOrganizations(ctx)
	s.Require().NoError(err)
	s.Require().Len(orgs, 2)

	s.Equal(dhs.ID, orgs[0].ID)
	s.Equal([]string{"Office of Homeland Security"}, orgs[0].FormerNames)
	s.Empty(orgs[0].Acronym)
	s.Nil(orgs[0].ExternalID)

	s.Equal(epa.ID, orgs[1].ID)
	s.Require().NotNil(orgs[1].ExternalID)
	s.Equal(145, *orgs[1].ExternalID)
	s.Equal("executive", orgs[1].Branch)
}

func (s *PostgresStoreSuite) TestReplaceLinksInTransaction() {
	ctx := context.Background()
	subject := s.seedRegulation(ctx)
	a := s.seedOrg(ctx, "Agency A", "AA", nil)
	b := s.seedOrg(ctx, "Agency B", "AB", nil)

	s.Require().NoError(s.links.SaveLink(ctx, models.LinkageRow{SubjectID: subject, OrganizationID: a.ID, RawName: "A", IsPrimary: true}))

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.links.DeleteLinksForSubject(ctx, subject)
		s.Equal(int64(1), n)
		if err != nil {
			return err
		}
		if err := s.links.SaveLink(ctx, models.LinkageRow{SubjectID: subject, OrganizationID: b.ID, RawName: "B", IsPrimary: true}); err != nil {
			return err
		}
		return s.links.SaveLink(ctx, models.LinkageRow{SubjectID: subject, OrganizationID: a.ID, RawName: "A"})
	})
	s.Require().NoError(err)

	rows, err := s.links.ListLinksForSubject(ctx, subject)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(b.ID, rows[0].OrganizationID)
	s.True(rows[0].IsPrimary)
	s.False(rows[1].IsPrimary)
}

func (s *PostgresStoreSuite) TestRollbackKeepsPriorRows() {
	ctx := context.Background()
	subject := s.seedRegulation(ctx)
	a := s.seedOrg(ctx, "Agency A", "AA", nil)
	s.Require().NoError(s.links.SaveLink(ctx, models.LinkageRow{SubjectID: subject, OrganizationID: a.ID, IsPrimary: true}))

	boom := errors.New("boom")
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.links.DeleteLinksForSubject(ctx, subject); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	rows, err := s.links.ListLinksForSubject(ctx, subject)
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *PostgresStoreSuite) TestCounts() {
	ctx := context.Background()
	linked := s.seedRegulation(ctx)
	s.seedRegulation(ctx)
	org := s.seedOrg(ctx, "Agency A", "AA", nil)
	s.Require().NoError(s.links.SaveLink(ctx, models.LinkageRow{SubjectID: linked, OrganizationID: org.ID, IsPrimary: true}))

	total, err := s.links.CountTotalSubjects(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	n, err := s.links.CountDistinctLinkedSubjects(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}
