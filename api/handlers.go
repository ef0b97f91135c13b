/*
handlers.go - HTTP API handlers for the discount dashboard

PURPOSE:
  Exposes the discount engine via REST API. Handles HTTP request and
  response, JSON serialization, and delegates to the store.

ENDPOINTS:
  Discounts:
    GET    /api/discounts                    List (branch, status, page, limit, q)
    POST   /api/discounts                    Create
    GET    /api/discounts/{id}               Get one
    PUT    /api/discounts/{id}               Update (aggregates preserved)
    DELETE /api/discounts/{id}               Delete with cascade
    POST   /api/discounts/{id}/apply         Record an application
    GET    /api/discounts/{id}/applications  Ledger query (start, end, branch)

  Reports:
    GET    /api/reports/usage                Per-discount usage summary

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario
    POST   /api/scenarios/reset              Reset the store

SEARCH:
  The q parameter is the dashboard's free-text search. It is a UI-layer
  concern, so it runs here - after the store's branch/status filter and
  before pagination - as a case-insensitive substring match over name,
  creator, type, and branch names.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad query parameters
  - 404: Discount not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *discount.Store
	Log   zerolog.Logger

	// scenarioMu guards currentScenario; handlers run concurrently.
	scenarioMu      sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler around the given store.
func NewHandler(store *discount.Store, log zerolog.Logger) *Handler {
	return &Handler{Store: store, Log: log}
}

// setLoadedScenario records which scenario the store currently holds.
func (h *Handler) setLoadedScenario(id string) {
	h.scenarioMu.Lock()
	h.currentScenario = id
	h.scenarioMu.Unlock()
}

// loadedScenario returns the last loaded scenario id, or "" after a reset.
func (h *Handler) loadedScenario() string {
	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()
	return h.currentScenario
}

// =============================================================================
// DISCOUNT HANDLERS
// =============================================================================

// ListDiscounts returns a filtered, searched, paginated discount list.
// GET /api/discounts?branch=&status=&page=&limit=&q=
func (h *Handler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branch")
	status := discount.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = discount.FilterAll
	}
	query := r.URL.Query().Get("q")

	page, limit, err := parsePaging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	// Without a search query the store's projection does the slicing.
	// With one, search runs between the store filter and pagination,
	// mirroring the dashboard's UI-layer composition.
	if query == "" {
		result, err := h.Store.PaginatedDiscounts(branch, status, page, limit)
		if err != nil {
			h.writeStoreError(w, "Failed to list discounts", err)
			return
		}
		writeJSON(w, http.StatusOK, toPageDTO(result))
		return
	}

	filtered := searchDiscounts(h.Store.FilteredDiscounts(branch, status), query)
	result, err := discount.PaginateDiscounts(filtered, page, limit)
	if err != nil {
		h.writeStoreError(w, "Failed to list discounts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(result))
}

func toPageDTO(p discount.Page) PageDTO {
	items := make([]DiscountDTO, len(p.Items))
	for i, d := range p.Items {
		items[i] = toDiscountDTO(d)
	}
	return PageDTO{
		Items:      items,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

// GetDiscount returns a single discount.
// GET /api/discounts/{id}
func (h *Handler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.Store.DiscountByID(id)
	if err != nil {
		h.writeStoreError(w, "Failed to get discount", err)
		return
	}
	writeJSON(w, http.StatusOK, toDiscountDTO(d))
}

// CreateDiscount creates a new discount.
// POST /api/discounts
func (h *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req UpsertDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.Store.CreateDiscount(fromUpsertRequest(req))
	if err != nil {
		h.writeStoreError(w, "Failed to create discount", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiscountDTO(created))
}

// UpdateDiscount replaces a discount record.
// PUT /api/discounts/{id}
func (h *Handler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpsertDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.Store.UpdateDiscount(id, fromUpsertRequest(req))
	if err != nil {
		h.writeStoreError(w, "Failed to update discount", err)
		return
	}
	writeJSON(w, http.StatusOK, toDiscountDTO(updated))
}

// DeleteDiscount removes a discount and its applications.
// DELETE /api/discounts/{id}
func (h *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteDiscount(id); err != nil {
		h.writeStoreError(w, "Failed to delete discount", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// ApplyDiscount records one application of a discount.
// POST /api/discounts/{id}/apply
func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ApplyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	app, err := h.Store.ApplyDiscount(id, discount.ApplyInput{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Branch:         req.Branch,
		OrderAmount:    decimal.NewFromFloat(req.OrderAmount),
		DiscountAmount: decimal.NewFromFloat(req.DiscountAmount),
		Server:         req.Server,
		BankCard:       req.BankCard,
	})
	if err != nil {
		h.writeStoreError(w, "Failed to apply discount", err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicationDTO(app))
}

// ListApplications returns the ledger entries for a discount, newest first.
// GET /api/discounts/{id}/applications?start=&end=&branch=
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filter := discount.ApplicationFilter{Branch: r.URL.Query().Get("branch")}
	if s := r.URL.Query().Get("start"); s != "" {
		start, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start (use RFC 3339)", err)
			return
		}
		filter.Start = &start
	}
	if s := r.URL.Query().Get("end"); s != "" {
		end, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end (use RFC 3339)", err)
			return
		}
		filter.End = &end
	}

	apps, err := h.Store.Applications(id, filter)
	if err != nil {
		h.writeStoreError(w, "Failed to list applications", err)
		return
	}

	dtos := make([]ApplicationDTO, len(apps))
	for i, a := range apps {
		dtos[i] = toApplicationDTO(a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": dtos})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// UsageReport returns per-discount usage summary rows.
// GET /api/reports/usage?branch=&status=
func (h *Handler) UsageReport(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branch")
	status := discount.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = discount.FilterAll
	}

	rows := make([]UsageReportRow, 0)
	for _, d := range h.Store.FilteredDiscounts(branch, status) {
		rows = append(rows, toUsageReportRow(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// =============================================================================
// SEARCH - UI-layer free-text filtering
// =============================================================================

// searchDiscounts keeps discounts whose searchable fields contain the
// query, case-insensitively. Runs after store-level filters.
func searchDiscounts(discounts []discount.Discount, query string) []discount.Discount {
	needle := strings.ToLower(query)
	out := make([]discount.Discount, 0, len(discounts))
	for _, d := range discounts {
		haystack := strings.ToLower(strings.Join(append([]string{d.Name, d.CreatedBy, string(d.Kind)}, d.Branches...), " "))
		if strings.Contains(haystack, needle) {
			out = append(out, d)
		}
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

func parsePaging(r *http.Request) (page, limit int, err error) {
	page, limit = defaultPage, defaultLimit
	if s := r.URL.Query().Get("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil {
			return 0, 0, err
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			return 0, 0, err
		}
	}
	if page < 1 || limit < 1 {
		return 0, 0, discount.ErrInvalidPage
	}
	return page, limit, nil
}

// writeStoreError maps engine errors onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case discount.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case discount.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
