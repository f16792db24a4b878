package resolver

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"orglink/internal/linkage/alias"
	"orglink/internal/linkage/fuzzy"
	"orglink/internal/linkage/metrics"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/registry"
)

// =============================================================================
// Resolver Test Suite
// =============================================================================
// Justification for unit tests: the cascade order, short-circuit rules and
// fuzzy gating decide which organization a reference links to. They are pure
// functions over a snapshot and are cheapest to pin down here.

type ResolverSuite struct {
	suite.Suite
	cache   *registry.Cache
	metrics *metrics.Metrics

	epa  models.Organization
	dhs  models.Organization
	fcc  models.Organization
	doe  models.Organization
	hhs  models.Organization
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func intPtr(v int) *int { return &v }

func (s *ResolverSuite) SetupTest() {
	s.epa = models.Organization{
		ID:           uuid.New(),
		OfficialName: "Environmental Protection Agency",
		Acronym:      "EPA",
		ExternalID:   intPtr(145),
	}
	s.dhs = models.Organization{
		ID:           uuid.New(),
		OfficialName: "Department of Homeland Security",
		Acronym:      "DHS",
		FormerNames:  []string{"Office of Homeland Security"},
		ExternalID:   intPtr(227),
	}
	s.fcc = models.Organization{
		ID:           uuid.New(),
		OfficialName: "Federal Communications Commission",
		Acronym:      "FCC",
	}
	s.doe = models.Organization{
		ID:           uuid.New(),
		OfficialName: "Department of Energy",
		Acronym:      "DOE",
	}
	// Registry spelling differs from the alias table key.
	s.hhs = models.Organization{
		ID:           uuid.New(),
		OfficialName: "Health and Human Services Department",
		Acronym:      "HHS",
	}
	s.cache = registry.NewCache()
	s.cache.Rebuild([]models.Organization{s.epa, s.dhs, s.fcc, s.doe, s.hhs})
	s.metrics = metrics.New(prometheus.NewRegistry())
}

func (s *ResolverSuite) newResolver(fuzzyEnabled bool) *Resolver {
	return New(s.cache, alias.Default(), Config{
		FuzzyEnabled:   fuzzyEnabled,
		FuzzyThreshold: 0.85,
	}, WithMetrics(s.metrics))
}

// =============================================================================
// Cascade Order
// =============================================================================

func (s *ResolverSuite) TestCascade() {
	s.Run("fuzzy enabled appends the fuzzy step", func() {
		s.Equal([]models.Strategy{
			models.StrategyExternalID,
			models.StrategyName,
			models.StrategyAcronym,
			models.StrategyManualAlias,
			models.StrategyFuzzy,
		}, s.newResolver(true).Cascade())
	})

	s.Run("fuzzy disabled omits it", func() {
		s.NotContains(s.newResolver(false).Cascade(), models.StrategyFuzzy)
	})
}

// =============================================================================
// External ID
// =============================================================================

func (s *ResolverSuite) TestExternalID() {
	r := s.newResolver(true)

	s.Run("id wins over a conflicting display name", func() {
		for _, org := range []models.Organization{s.epa, s.dhs} {
			got := r.Resolve(&models.Reference{
				DisplayName: s.fcc.OfficialName,
				ExternalID:  org.ExternalID,
			})
			s.True(got.Matched)
			s.Equal(org.ID, got.OrganizationID)
			s.Equal(models.StrategyExternalID, got.Strategy)
			s.Equal(1.0, got.Confidence)
		}
	})

	s.Run("id matches even with a blank display name", func() {
		got := r.Resolve(&models.Reference{ExternalID: intPtr(145)})
		s.True(got.Matched)
		s.Equal(s.epa.ID, got.OrganizationID)
	})

	s.Run("unknown id falls through to name", func() {
		got := r.Resolve(&models.Reference{DisplayName: "Department of Energy", ExternalID: intPtr(9999)})
		s.True(got.Matched)
		s.Equal(models.StrategyName, got.Strategy)
		s.Equal(s.doe.ID, got.OrganizationID)
	})
}

// =============================================================================
// Exact Name
// =============================================================================

func (s *ResolverSuite) TestName() {
	r := s.newResolver(false)

	s.Run("case and whitespace insensitive", func() {
		for _, name := range []string{
			"Environmental Protection Agency",
			"ENVIRONMENTAL PROTECTION AGENCY",
			"  Environmental   Protection   Agency  ",
		} {
			got := r.Resolve(&models.Reference{DisplayName: name})
			s.True(got.Matched, name)
			s.Equal(s.epa.ID, got.OrganizationID, name)
			s.Equal(models.StrategyName, got.Strategy, name)
		}
	})

	s.Run("former name resolves to current owner", func() {
		got := r.Resolve(&models.Reference{DisplayName: "Office of Homeland Security"})
		s.True(got.Matched)
		s.Equal(s.dhs.ID, got.OrganizationID)
		s.Equal(models.StrategyName, got.Strategy)
	})

	s.Run("blank display name stops the cascade", func() {
		got := r.Resolve(&models.Reference{DisplayName: "   ", ShortName: "EPA"})
		s.False(got.Matched)
		s.Empty(got.Suggestions)
	})

	s.Run("nil reference is unmatched", func() {
		s.False(r.Resolve(nil).Matched)
	})
}

// =============================================================================
// Acronym and Manual Alias
// =============================================================================

func (s *ResolverSuite) TestAcronym() {
	r := s.newResolver(false)

	got := r.Resolve(&models.Reference{DisplayName: "Some Agency Label", ShortName: " fcc "})
	s.True(got.Matched)
	s.Equal(s.fcc.ID, got.OrganizationID)
	s.Equal(models.StrategyAcronym, got.Strategy)
}

func (s *ResolverSuite) TestManualAlias() {
	r := s.newResolver(false)

	s.Run("alias name resolves through the acronym index", func() {
		got := r.Resolve(&models.Reference{DisplayName: "Department of Health and Human Services"})
		s.True(got.Matched)
		s.Equal(s.hhs.ID, got.OrganizationID)
		s.Equal(models.StrategyManualAlias, got.Strategy)
		s.Equal(1.0, got.Confidence)
	})

	s.Run("alias whose acronym is not in the registry misses", func() {
		got := r.Resolve(&models.Reference{DisplayName: "Social Security Administration"})
		s.False(got.Matched)
	})

	s.Run("nil alias table skips the step", func() {
		bare := New(s.cache, nil, Config{})
		got := bare.Resolve(&models.Reference{DisplayName: "Department of Health and Human Services"})
		s.False(got.Matched)
	})
}

// =============================================================================
// Fuzzy
// =============================================================================

func (s *ResolverSuite) TestFuzzy() {
	typo := &models.Reference{DisplayName: "Enviromental Protection Agency"}

	s.Run("disabled leaves a typo unmatched", func() {
		got := s.newResolver(false).Resolve(typo)
		s.False(got.Matched)
	})

	s.Run("enabled at 0.85 matches the typo", func() {
		got := s.newResolver(true).Resolve(typo)
		s.True(got.Matched)
		s.Equal(s.epa.ID, got.OrganizationID)
		s.Equal(models.StrategyFuzzy, got.Strategy)
		s.Greater(got.Confidence, 0.85)
		s.Less(got.Confidence, 1.0)
	})

	s.Run("distant names stay unmatched", func() {
		got := s.newResolver(true).Resolve(&models.Reference{DisplayName: "Bureau of Prisons"})
		s.False(got.Matched)
	})

	s.Run("threshold is configurable", func() {
		strict := New(s.cache, alias.Default(), Config{FuzzyEnabled: true, FuzzyThreshold: 0.99})
		s.False(strict.Resolve(typo).Matched)
	})
}

// =============================================================================
// Suggestions
// =============================================================================

func (s *ResolverSuite) TestSuggest() {
	r := s.newResolver(false)

	s.Run("returns official names even with fuzzy disabled", func() {
		got := r.Suggest("Department of Enrgy", 3)
		s.Require().NotEmpty(got)
		s.Equal("Department of Energy", got[0])
		s.LessOrEqual(len(got), 3)
	})

	s.Run("former name hits are reported under the official name once", func() {
		got := r.Suggest("Office of Homeland Securty", 3)
		s.Require().NotEmpty(got)
		s.Equal("Department of Homeland Security", got[0])
		count := 0
		for _, name := range got {
			if name == "Department of Homeland Security" {
				count++
			}
		}
		s.Equal(1, count)
	})

	s.Run("blank name or zero limit yields nothing", func() {
		s.Nil(r.Suggest("  ", 3))
		s.Nil(r.Suggest("Department of Energy", 0))
	})
}

// =============================================================================
// Empty Cache, Metrics, Concurrency
// =============================================================================

func (s *ResolverSuite) TestEmptyCacheResolvesNothing() {
	r := New(registry.NewCache(), alias.Default(), Config{FuzzyEnabled: true, FuzzyThreshold: 0.85})
	got := r.Resolve(&models.Reference{DisplayName: "Environmental Protection Agency", ShortName: "EPA", ExternalID: intPtr(145)})
	s.False(got.Matched)
}

func (s *ResolverSuite) TestUnsetThresholdUsesDefault() {
	for name, cfg := range map[string]Config{
		"zero value":     {FuzzyEnabled: true},
		"default config": DefaultConfig(),
	} {
		s.Run(name, func() {
			r := New(s.cache, nil, cfg)
			got := r.Resolve(&models.Reference{DisplayName: "Bureau of Totally Unrelated Things"})
			s.False(got.Matched, "unrelated name must not fuzzy match, got %+v", got)

			typo := r.Resolve(&models.Reference{DisplayName: "Enviromental Protection Agency"})
			s.True(typo.Matched)
			s.Equal(models.StrategyFuzzy, typo.Strategy)
			s.GreaterOrEqual(typo.Confidence, fuzzy.DefaultThreshold)
		})
	}
}

func (s *ResolverSuite) TestMetricsCountOutcomes() {
	r := s.newResolver(false)
	r.Resolve(&models.Reference{DisplayName: "Department of Energy"})
	r.Resolve(&models.Reference{DisplayName: "Nowhere Bureau"})
	r.Resolve(nil)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Resolutions.WithLabelValues("name")))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.Resolutions.WithLabelValues("unmatched")))
}

func (s *ResolverSuite) TestResolveDuringRebuild() {
	r := s.newResolver(true)
	orgs := []models.Organization{s.epa, s.dhs, s.fcc, s.doe, s.hhs}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.cache.Rebuild(orgs)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			got := r.Resolve(&models.Reference{DisplayName: "Department of Energy"})
			s.True(got.Matched)
		}
	}()
	wg.Wait()
}
