package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orglink/internal/linkage/alias"
	"orglink/internal/linkage/models"
	"orglink/internal/linkage/registry"
	"orglink/internal/linkage/resolver"
	"orglink/internal/linkage/service"
	"orglink/internal/linkage/store"
	"orglink/internal/linkage/unmatched"
	"orglink/internal/platform/middleware"
	"orglink/pkg/testutil"
)

const adminToken = "secret-token"

var (
	epaID = uuid.MustParse("6f1c1f0e-8a3b-4d0c-9a57-0d4c4d0f0001")
	dhsID = uuid.MustParse("6f1c1f0e-8a3b-4d0c-9a57-0d4c4d0f0002")
)

type fixture struct {
	router http.Handler
	links  *store.InMemoryLinkageStore
}

func newLinkageRouter(t *testing.T, refresh bool) fixture {
	t.Helper()
	ext := 145
	source := store.NewInMemoryRegistrySource(
		models.Organization{ID: epaID, OfficialName: "Environmental Protection Agency", Acronym: "EPA", ExternalID: &ext},
		models.Organization{ID: dhsID, OfficialName: "Department of Homeland Security", Acronym: "DHS"},
	)
	links := store.NewInMemoryLinkageStore()
	cache := registry.NewCache()
	r := resolver.New(cache, alias.Default(), resolver.Config{FuzzyEnabled: true, FuzzyThreshold: 0.85})
	svc, err := service.New(source, links, unmatched.NewInMemory(), cache, r, service.WithTx(store.NewShardedTx(links)))
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	if refresh {
		if _, err := svc.RefreshCache(context.Background()); err != nil {
			t.Fatalf("failed to refresh cache: %v", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger, 95)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequireAdminToken(adminToken, logger))
	h.Register(router)
	return fixture{router: router, links: links}
}

func do(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func TestAdminTokenRequired(t *testing.T) {
	f := newLinkageRouter(t, true)
	req := httptest.NewRequest(http.MethodGet, "/admin/linkage/stats", nil)
	// No admin token header set
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when admin token missing, got %d", rec.Code)
	}
}

func TestResolveViaHandler(t *testing.T) {
	f := newLinkageRouter(t, true)

	rec := do(t, f.router, http.MethodPost, "/admin/linkage/resolve", map[string]any{"name": "epa", "short_name": "epa"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 resolving, got %d", rec.Code)
	}
	resp := decode[ResolveResponse](t, rec)
	if !resp.Matched || resp.OrganizationID != epaID {
		t.Fatalf("expected EPA match, got %+v", resp.MatchResult)
	}
	if resp.Strategy != models.StrategyAcronym {
		t.Fatalf("expected acronym strategy, got %s", resp.Strategy)
	}
	if resp.Organization == nil || resp.Organization.OfficialName != "Environmental Protection Agency" {
		t.Fatalf("expected organization in response")
	}

	rec = do(t, f.router, http.MethodPost, "/admin/linkage/resolve", map[string]any{"name": "Bureau of Nothing"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a miss, got %d", rec.Code)
	}
	miss := decode[ResolveResponse](t, rec)
	if miss.Matched || miss.Organization != nil {
		t.Fatalf("expected unmatched result, got %+v", miss)
	}
}

func TestResolveRejectsEmptyBody(t *testing.T) {
	f := newLinkageRouter(t, true)
	rec := do(t, f.router, http.MethodPost, "/admin/linkage/resolve", map[string]any{"name": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", rec.Code)
	}
}

func TestResolveBeforeCacheLoadIsUnavailable(t *testing.T) {
	f := newLinkageRouter(t, false)
	rec := do(t, f.router, http.MethodPost, "/admin/linkage/resolve", map[string]any{"name": "EPA"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first refresh, got %d", rec.Code)
	}

	rec = do(t, f.router, http.MethodPost, "/admin/linkage/cache/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 refreshing cache, got %d", rec.Code)
	}
	sizes := decode[registry.Sizes](t, rec)
	if sizes.Names != 2 || sizes.Acronyms != 2 || sizes.ExternalIDs != 1 {
		t.Fatalf("unexpected sizes %+v", sizes)
	}

	rec = do(t, f.router, http.MethodGet, "/admin/linkage/cache", nil)
	stats := decode[service.CacheStats](t, rec)
	if !stats.Ready {
		t.Fatalf("expected cache to report ready after refresh")
	}
}

func TestLinkSubjectAndStatsViaHandlers(t *testing.T) {
	f := newLinkageRouter(t, true)
	subject := uuid.New()
	f.links.AddSubjects(subject, uuid.New())

	path := "/admin/linkage/subjects/" + subject.String() + "/links"
	rec := do(t, f.router, http.MethodPut, path, map[string]any{
		"references": []map[string]any{
			{"name": "Department of Homeland Security"},
			{"name": "Unknown Office of Things"},
			{"name": "Environmental Protection Agency", "id": 145},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 linking subject, got %d", rec.Code)
	}
	linkResp := decode[LinkResponse](t, rec)
	if linkResp.LinksCreated != 2 {
		t.Fatalf("expected 2 links created, got %d", linkResp.LinksCreated)
	}

	rec = do(t, f.router, http.MethodGet, path, nil)
	rows := decode[LinksResponse](t, rec)
	if len(rows.Links) != 2 {
		t.Fatalf("expected 2 stored links, got %d", len(rows.Links))
	}
	primaries := 0
	for _, row := range rows.Links {
		if row.IsPrimary {
			primaries++
			if row.OrganizationID != dhsID {
				t.Fatalf("expected first resolved organization to be primary")
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("expected exactly one primary row, got %d", primaries)
	}

	rec = do(t, f.router, http.MethodGet, "/admin/linkage/unmatched", nil)
	unmatchedResp := decode[UnmatchedResponse](t, rec)
	if unmatchedResp.Count != 1 || unmatchedResp.Names[0] != "Unknown Office of Things" {
		t.Fatalf("expected the unknown name to be tracked, got %+v", unmatchedResp)
	}

	rec = do(t, f.router, http.MethodGet, "/admin/linkage/stats?target=40", nil)
	statsResp := decode[StatsResponse](t, rec)
	if statsResp.Total != 2 || statsResp.Linked != 1 {
		t.Fatalf("unexpected statistics %+v", statsResp.LinkageStatistics)
	}
	if !statsResp.MeetsTarget || statsResp.Target != 40 {
		t.Fatalf("expected 50%% to meet a 40%% target, got %+v", statsResp)
	}

	rec = do(t, f.router, http.MethodGet, "/admin/linkage/stats", nil)
	statsResp = decode[StatsResponse](t, rec)
	if statsResp.MeetsTarget || statsResp.Target != 95 {
		t.Fatalf("expected default target 95 to be missed, got %+v", statsResp)
	}

	rec = do(t, f.router, http.MethodDelete, "/admin/linkage/unmatched", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 clearing unmatched, got %d", rec.Code)
	}
	rec = do(t, f.router, http.MethodGet, "/admin/linkage/unmatched", nil)
	if decode[UnmatchedResponse](t, rec).Count != 0 {
		t.Fatalf("expected unmatched set to be empty after clear")
	}
}

func TestLinkSubjectRejectsBadInput(t *testing.T) {
	f := newLinkageRouter(t, true)
	cases := []struct {
		name string
		path string
		body any
	}{
		{"malformed subject id", "/admin/linkage/subjects/not-a-uuid/links", map[string]any{"references": []any{}}},
		{"nil subject id", "/admin/linkage/subjects/" + uuid.Nil.String() + "/links", map[string]any{"references": []any{}}},
		{"too many references", "/admin/linkage/subjects/" + uuid.NewString() + "/links", map[string]any{"references": make([]models.Reference, maxReferences+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, f.router, http.MethodPut, tc.path, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestStatsRejectsBadTarget(t *testing.T) {
	f := newLinkageRouter(t, true)
	for _, target := range []string{"abc", "-1", "101"} {
		rec := do(t, f.router, http.MethodGet, fmt.Sprintf("/admin/linkage/stats?target=%s", target), nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for target %q, got %d", target, rec.Code)
		}
	}
}

func TestBatchViaHandler(t *testing.T) {
	f := newLinkageRouter(t, true)
	a, b := uuid.New(), uuid.New()
	payload := map[string]any{
		"subjects": []map[string]any{
			{"subject_id": a, "references": []map[string]any{{"name": "EPA", "short_name": "EPA"}}},
			{"subject_id": b, "references": []map[string]any{{"name": "Nowhere Agency"}}},
			{"subject_id": uuid.Nil, "references": []map[string]any{{"name": "DHS", "short_name": "DHS"}}},
		},
	}
	rec := do(t, f.router, http.MethodPost, "/admin/linkage/batch", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 running batch, got %d", rec.Code)
	}
	result := decode[models.SyncResult](t, rec)
	if result.Added != 1 || result.Skipped != 1 || result.Errors != 1 {
		t.Fatalf("unexpected batch result %+v", result)
	}
	if result.LinksCreated != 1 {
		t.Fatalf("expected 1 link created, got %d", result.LinksCreated)
	}
}

func TestValidateViaHandler(t *testing.T) {
	f := newLinkageRouter(t, true)
	rec := do(t, f.router, http.MethodPost, "/admin/linkage/validate", map[string]any{"name": "Enviromental Protection Agency"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 validating, got %d", rec.Code)
	}
	result := decode[models.ValidationResult](t, rec)
	if !result.Valid() || result.Match.OrganizationID != epaID {
		t.Fatalf("expected fuzzy validation to find EPA, got %+v", result)
	}
}

func TestHandleValidateWithoutRouter(t *testing.T) {
	source := store.NewInMemoryRegistrySource(
		models.Organization{ID: epaID, OfficialName: "Environmental Protection Agency", Acronym: "EPA"},
	)
	links := store.NewInMemoryLinkageStore()
	cache := registry.NewCache()
	r := resolver.New(cache, alias.Default(), resolver.Config{})
	svc, err := service.New(source, links, unmatched.NewInMemory(), cache, r)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	if _, err := svc.RefreshCache(context.Background()); err != nil {
		t.Fatalf("failed to refresh cache: %v", err)
	}
	h := New(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), 95)

	req := testutil.WithRequestID(
		testutil.NewJSONRequest(t, http.MethodPost, "/admin/linkage/validate", map[string]string{"name": "EPA", "entity_type": "person"}),
		"req-123",
	)
	rec := httptest.NewRecorder()
	h.HandleValidate(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	result := testutil.UnmarshalResponse[models.ValidationResult](t, rec)
	if result.Applicable {
		t.Fatalf("expected non-government entity type to be not applicable")
	}
}
