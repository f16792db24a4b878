package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeLinkageStatistics(t *testing.T) {
	t.Run("zero subjects yields zero rate", func(t *testing.T) {
		stats := ComputeLinkageStatistics(0, 0)
		assert.Equal(t, 0.0, stats.Rate)
		assert.False(t, stats.MeetsTarget(95))
		assert.True(t, stats.MeetsTarget(0))
	})

	t.Run("rate is a percentage", func(t *testing.T) {
		stats := ComputeLinkageStatistics(100, 95)
		assert.Equal(t, 95.0, stats.Rate)
		assert.True(t, stats.MeetsTarget(95.0))
		assert.False(t, stats.MeetsTarget(95.1))
	})

	t.Run("full coverage", func(t *testing.T) {
		assert.Equal(t, 100.0, ComputeLinkageStatistics(3, 3).Rate)
	})
}

func TestMatchResultConstructors(t *testing.T) {
	id := uuid.New()
	m := Matched(id, 0.9, StrategyFuzzy)
	assert.True(t, m.Matched)
	assert.Equal(t, id, m.OrganizationID)
	assert.Empty(t, m.Suggestions)

	u := Unmatched("A", "B")
	assert.False(t, u.Matched)
	assert.Equal(t, uuid.Nil, u.OrganizationID)
	assert.Equal(t, []string{"A", "B"}, u.Suggestions)
}

func TestEntity(t *testing.T) {
	assert.True(t, IsGovernmentOrgType(" Government_Org "))
	assert.False(t, IsGovernmentOrgType("person"))

	id := uuid.New()
	e := Entity{EntityType: "government_org", Verified: true}
	assert.False(t, e.IsLinked())
	e.GovernmentOrgID = &id
	assert.True(t, e.IsLinked())
	assert.True(t, e.IsGovernmentOrg())
}

func TestSyncResultTotal(t *testing.T) {
	r := SyncResult{Added: 1, Updated: 2, Skipped: 3, Errors: 4, LinksCreated: 10}
	assert.Equal(t, 10, r.Total())
}
