package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATION - Derived usage statistics
// =============================================================================
// The four aggregate fields on Discount are derived from the application
// ledger and recomputed here, and only here. The recompute runs inside the
// same critical section as the application insert, so no observer can see
// one without the other.

// recordUsage folds one application into the parent discount's aggregates.
//
//	TotalUsage      += 1
//	TotalAmount     += amount
//	AverageDiscount  = round(TotalAmount / TotalUsage)  (integer rounding)
//	LastUsed         = now
//	UpdatedAt        = now
//
// Division is safe: TotalUsage was just incremented and is >= 1.
func recordUsage(d *Discount, amount decimal.Decimal, now time.Time) {
	d.TotalUsage++
	d.TotalAmount = d.TotalAmount.Add(amount)
	d.AverageDiscount = d.TotalAmount.Div(decimal.NewFromInt(int64(d.TotalUsage))).Round(0)
	used := now
	d.LastUsed = &used
	d.UpdatedAt = now
}

// preserveAggregates copies the aggregate fields (and the immutable
// identity fields) from the stored record onto an incoming replacement.
// A whole-record update must never reset statistics the ledger produced.
func preserveAggregates(incoming *Discount, existing Discount) {
	incoming.ID = existing.ID
	incoming.CreatedAt = existing.CreatedAt
	incoming.CreatedBy = existing.CreatedBy
	incoming.TotalUsage = existing.TotalUsage
	incoming.TotalAmount = existing.TotalAmount
	incoming.AverageDiscount = existing.AverageDiscount
	incoming.LastUsed = existing.LastUsed
}
