/*
handlers_test.go - HTTP-level tests for the dashboard API

Tests for:
- Create/apply/report round trips through the router
- Free-text search composing with store-level filters
- Error mapping (404 vs 400)
- Scenario loading and reset
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter() (*chi.Mux, *discount.Store) {
	store := discount.NewStore()
	h := NewHandler(store, zerolog.Nop())
	router := NewRouter(h, RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            zerolog.Nop(),
	})
	return router, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func percentageRequest(name string, branches ...string) UpsertDiscountRequest {
	return UpsertDiscountRequest{
		Name:               name,
		Type:               string(discount.KindPercentage),
		Status:             string(discount.StatusActive),
		Branches:           branches,
		ApplyToAllBranches: len(branches) == 0,
		CreatedBy:          "admin",
		PercentageDeal:     &PercentageDealDTO{Percentage: 15},
	}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestCreateApplyReport_RoundTrip(t *testing.T) {
	// GIVEN: A discount created over HTTP
	// WHEN: Applying it three times and querying the ledger and report
	// THEN: Aggregates and ordering match the engine contract

	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/discounts", percentageRequest("Summer Deal"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[DiscountDTO](t, rec)
	require.NotEmpty(t, created.ID)

	for _, amount := range []float64{150, 200, 250} {
		rec := doJSON(t, router, http.MethodPost, "/api/discounts/"+created.ID+"/apply", ApplyDiscountRequest{
			CustomerName:   "Ali",
			CustomerPhone:  "0300-1234567",
			Branch:         "Gulberg",
			OrderAmount:    1000,
			DiscountAmount: amount,
			Server:         "Bilal",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		app := decode[ApplicationDTO](t, rec)
		assert.Contains(t, app.OrderID, "ORD-")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/discounts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[DiscountDTO](t, rec)
	assert.Equal(t, 3, got.TotalUsage)
	assert.Equal(t, 600.0, got.TotalAmount)
	assert.Equal(t, 200.0, got.AverageDiscount)
	assert.NotNil(t, got.LastUsed)

	rec = doJSON(t, router, http.MethodGet, "/api/discounts/"+created.ID+"/applications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[map[string][]ApplicationDTO](t, rec)["applications"]
	require.Len(t, apps, 3)
	// Newest first: the last applied amount leads.
	assert.Equal(t, 250.0, apps[0].DiscountAmount)

	rec = doJSON(t, router, http.MethodGet, "/api/reports/usage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[map[string][]UsageReportRow](t, rec)["rows"]
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].TotalUsage)
}

// =============================================================================
// SEARCH + FILTER COMPOSITION
// =============================================================================

func TestListDiscounts_SearchComposesWithFilters(t *testing.T) {
	// Search runs after store-level branch/status filtering, so a name
	// match in an out-of-scope branch must not appear.

	router, _ := newTestRouter()

	for _, req := range []UpsertDiscountRequest{
		percentageRequest("Sizzler Special", "Gulberg"),
		percentageRequest("Sizzler Nights", "DHA"),
		percentageRequest("Quiet Deal", "Gulberg"),
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/discounts", req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/discounts?branch=Gulberg&q=sizzler", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PageDTO](t, rec)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sizzler Special", page.Items[0].Name)
	assert.Equal(t, 1, page.TotalItems)
}

func TestListDiscounts_Pagination(t *testing.T) {
	router, _ := newTestRouter()

	for i := 1; i <= 15; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/discounts", percentageRequest(fmt.Sprintf("Deal %02d", i)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/discounts?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PageDTO](t, rec)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 15, page.TotalItems)

	rec = doJSON(t, router, http.MethodGet, "/api/discounts?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestErrorMapping(t *testing.T) {
	router, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/discounts/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/discounts/ghost", percentageRequest("Ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/discounts/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	bad := percentageRequest("Broken")
	bad.PercentageDeal.Percentage = 150
	rec = doJSON(t, router, http.MethodPost, "/api/discounts", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.NotEmpty(t, resp.Details)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarios_LoadAndReset(t *testing.T) {
	router, store := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "busy-week"})
	require.Equal(t, http.StatusOK, rec.Code)

	discounts := store.Discounts()
	assert.Len(t, discounts, 5)

	applied := 0
	for _, d := range discounts {
		applied += d.TotalUsage
	}
	assert.Equal(t, 6, applied, "busy-week records six applications")

	rec = doJSON(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decode[map[string]string](t, rec)
	assert.Equal(t, "busy-week", current["current"])

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.Discounts())

	rec = doJSON(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarios_ConcurrentLoadAndCurrent(t *testing.T) {
	// GIVEN: Parallel scenario loads and current-scenario reads
	// THEN: The handler's scenario state stays race-free (run with -race)

	router, _ := newTestRouter()

	body, err := json.Marshal(LoadScenarioRequest{ScenarioID: "starter"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/scenarios/load", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(httptest.NewRecorder(), req)
		}()
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/scenarios/current", nil)
			router.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	rec := doJSON(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "starter", decode[map[string]string](t, rec)["current"])
}
