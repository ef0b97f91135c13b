package discount_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fakeClock gives tests full control over store timestamps.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) Set(t time.Time)         { c.now = t }

func newTestStore() (*discount.Store, *fakeClock) {
	clock := newFakeClock()
	store := discount.NewStore(discount.WithClock(clock.Now))
	return store, clock
}

// percentageDeal builds a valid percentage discount scoped to branches,
// or to all branches when none are given.
func percentageDeal(name string, branches ...string) discount.Discount {
	return discount.Discount{
		Name:        name,
		Kind:        discount.KindPercentage,
		Status:      discount.StatusActive,
		Branches:    branches,
		AllBranches: len(branches) == 0,
		CreatedBy:   "admin",
		Percentage:  &discount.PercentageDeal{Percentage: 15},
	}
}

// loyaltyDeal builds a valid visit-tier loyalty discount.
func loyaltyDeal(name string, status discount.Status) discount.Discount {
	return discount.Discount{
		Name:        name,
		Kind:        discount.KindLoyalty,
		Status:      status,
		AllBranches: true,
		CreatedBy:   "admin",
		Loyalty: &discount.LoyaltyProgram{
			Kind:       discount.LoyaltyVisitTiers,
			VisitTiers: []discount.VisitTier{{Name: "Regular", Visits: 5, Reward: "Free drink"}},
		},
	}
}

// applyInput builds a valid application payload.
func applyInput(branch string, discountAmount int64) discount.ApplyInput {
	return discount.ApplyInput{
		CustomerName:   "Ali",
		CustomerPhone:  "0300-1234567",
		Branch:         branch,
		OrderAmount:    decimal.NewFromInt(1000),
		DiscountAmount: decimal.NewFromInt(discountAmount),
		Server:         "Bilal",
	}
}
