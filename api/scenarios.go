/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the store with realistic
  data for demos. Each scenario creates discounts covering the variant
  shapes and, where noted, pre-recorded applications.

AVAILABLE SCENARIOS:
  starter:    One discount of each variant, no usage yet
  busy-week:  Starter discounts plus a week of recorded applications

HOW SCENARIOS WORK:
  1. Reset the store (clear all data)
  2. Create discounts through the normal store operations
  3. Optionally record applications so the reports have data

USAGE VIA API:
  POST /api/scenarios/load
  {"scenarioId": "busy-week"}

NOTE:
  Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers and error mapping
  - server.go: Scenario routes
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes one loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body for POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "starter",
		Name:        "Starter",
		Description: "One discount of each variant, no recorded usage",
	},
	{
		ID:          "busy-week",
		Name:        "Busy Week",
		Description: "Starter discounts plus a week of recorded applications",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": scenarios})
}

// GetCurrentScenario reports which scenario was loaded last.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"current": h.loadedScenario()})
}

// LoadScenario resets the store and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.Store.Reset()

	if err := LoadSeedScenario(h.Store, req.ScenarioID); err != nil {
		if errors.Is(err, errUnknownScenario) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
			return
		}
		h.Log.Error().Err(err).Str("scenario", req.ScenarioID).Msg("scenario load failed")
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.setLoadedScenario(req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]any{"loaded": req.ScenarioID})
}

// ResetStore clears all discounts and applications.
// POST /api/scenarios/reset
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	h.Store.Reset()
	h.setLoadedScenario("")
	writeJSON(w, http.StatusOK, map[string]any{"reset": true})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

var errUnknownScenario = errors.New("unknown scenario")

// LoadSeedScenario loads a named scenario into the store. Used by the
// load endpoint and by cmd/server boot seeding.
func LoadSeedScenario(store *discount.Store, id string) error {
	switch id {
	case "starter":
		return loadStarterScenario(store)
	case "busy-week":
		return loadBusyWeekScenario(store)
	default:
		return fmt.Errorf("%w: %q", errUnknownScenario, id)
	}
}

func loadStarterScenario(store *discount.Store) error {
	maxAmount := decimal.NewFromInt(500)
	seeds := []discount.Discount{
		{
			Name:        "Summer Sizzler",
			Kind:        discount.KindPercentage,
			Status:      discount.StatusActive,
			AllBranches: true,
			CreatedBy:   "manager",
			Percentage:  &discount.PercentageDeal{Percentage: 15, MaxAmount: &maxAmount},
		},
		{
			Name:      "Family Platter Deal",
			Kind:      discount.KindFixedPrice,
			Status:    discount.StatusActive,
			Branches:  []string{"Gulberg", "DHA"},
			CreatedBy: "manager",
			FixedPrice: &discount.FixedPriceDeal{Options: []discount.PriceOption{
				{Name: "Family Platter", Price: decimal.NewFromInt(1999)},
				{Name: "Couple Combo", Price: decimal.NewFromInt(1199)},
			}},
		},
		{
			Name:      "HBL Card Tuesday",
			Kind:      discount.KindBank,
			Status:    discount.StatusActive,
			Branches:  []string{"Gulberg"},
			CreatedBy: "manager",
			Bank: &discount.BankDiscount{
				DiscountPercentage: 20,
				Cards:              []string{"HBL Visa", "HBL Mastercard"},
			},
		},
		{
			Name:        "Regulars Club",
			Kind:        discount.KindLoyalty,
			Status:      discount.StatusActive,
			AllBranches: true,
			CreatedBy:   "owner",
			Loyalty: &discount.LoyaltyProgram{
				Kind: discount.LoyaltyVisitTiers,
				VisitTiers: []discount.VisitTier{
					{Name: "Regular", Visits: 5, Reward: "Free drink"},
					{Name: "Devoted", Visits: 15, Reward: "Free dessert"},
				},
			},
		},
		{
			Name:        "Referral Rewards",
			Kind:        discount.KindLoyalty,
			Status:      discount.StatusInactive,
			AllBranches: true,
			CreatedBy:   "owner",
			Loyalty: &discount.LoyaltyProgram{
				Kind: discount.LoyaltyReferral,
				Referral: &discount.ReferralReward{
					ReferrerAmount: decimal.NewFromInt(300),
					RefereeAmount:  decimal.NewFromInt(200),
				},
			},
		},
	}

	for _, d := range seeds {
		if _, err := store.CreateDiscount(d); err != nil {
			return err
		}
	}
	return nil
}

func loadBusyWeekScenario(store *discount.Store) error {
	if err := loadStarterScenario(store); err != nil {
		return err
	}

	type visit struct {
		discountName string
		customer     string
		phone        string
		branch       string
		server       string
		order        int64
		amount       int64
		bankCard     string
	}
	visits := []visit{
		{"Summer Sizzler", "Ali Raza", "0300-1234567", "Gulberg", "Bilal", 1000, 150, ""},
		{"Summer Sizzler", "Sana Khan", "0321-7654321", "DHA", "Hamza", 1400, 200, ""},
		{"Summer Sizzler", "Umar Farooq", "0333-1112223", "Gulberg", "Bilal", 1800, 250, ""},
		{"HBL Card Tuesday", "Nida Shah", "0345-9988776", "Gulberg", "Hamza", 2400, 480, "HBL Visa"},
		{"Family Platter Deal", "Kamran Ali", "0301-4455667", "DHA", "Tariq", 2500, 501, ""},
		{"Regulars Club", "Ayesha Malik", "0322-3344556", "Gulberg", "Bilal", 900, 90, ""},
	}

	byName := make(map[string]string)
	for _, d := range store.Discounts() {
		byName[d.Name] = d.ID
	}

	for _, v := range visits {
		id, ok := byName[v.discountName]
		if !ok {
			return fmt.Errorf("seed discount %q missing", v.discountName)
		}
		_, err := store.ApplyDiscount(id, discount.ApplyInput{
			CustomerName:   v.customer,
			CustomerPhone:  v.phone,
			Branch:         v.branch,
			OrderAmount:    decimal.NewFromInt(v.order),
			DiscountAmount: decimal.NewFromInt(v.amount),
			Server:         v.server,
			BankCard:       v.bankCard,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
