/*
Package discount provides the core discount management engine.

PURPOSE:
  This package contains the canonical store for discount definitions, the
  append-only ledger of discount applications, the aggregation logic that
  keeps derived usage statistics consistent, read-side filter/pagination
  projections, and the change-notification bus that tells UI consumers
  when the store mutated.

KEY CONCEPTS IN THIS FILE (types.go):
  - Discount: A promotional rule, one of four variants (tagged union)
  - Application: An immutable record of a discount used on an order
  - LoyaltyProgram: The loyalty variant with its own sub-variants
  - Kind/Status: Discriminator and lifecycle enums

DESIGN PRINCIPLES:
  1. Immutability: Applications are never modified, only appended
  2. Precision: Uses decimal.Decimal for money to avoid float errors
  3. Exhaustiveness: Variant payloads are a closed set, checked by
     validation so a Kind always matches exactly one payload
  4. Defensive copies: Clone() produces deep copies so callers can never
     reach the store's internal slices

SEE ALSO:
  - store.go: The Store owning all Discount and Application records
  - aggregate.go: Derived statistics recompute
  - validate.go: Payload validation rules
*/
package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMS - Discriminators and lifecycle states
// =============================================================================

// Status is the lifecycle state of a discount.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Kind discriminates the discount variants. Exactly one variant payload on
// Discount must be set and it must match the Kind.
type Kind string

const (
	KindPercentage Kind = "percentageDeal"
	KindFixedPrice Kind = "fixedPriceDeal"
	KindBank       Kind = "bankDiscount"
	KindLoyalty    Kind = "loyalty"
)

// LoyaltyKind discriminates the loyalty sub-variants.
type LoyaltyKind string

const (
	LoyaltyPercentageTiers LoyaltyKind = "percentageTiers"
	LoyaltyFixedTiers      LoyaltyKind = "fixedTiers"
	LoyaltyVisitTiers      LoyaltyKind = "visitTiers"
	LoyaltyReferral        LoyaltyKind = "referral"
)

// =============================================================================
// VARIANT PAYLOADS
// =============================================================================

// PercentageDeal takes a fixed percentage off the order, optionally capped.
type PercentageDeal struct {
	Percentage int              // 1-100
	MaxAmount  *decimal.Decimal // optional cap on the discounted amount
}

// PriceOption is one named fixed-price offer (e.g. "Family Deal" for 1999).
type PriceOption struct {
	Name  string
	Price decimal.Decimal
}

// FixedPriceDeal offers one or more named fixed-price options.
type FixedPriceDeal struct {
	Options []PriceOption
}

// BankDiscount applies a percentage when paying with a supported card.
type BankDiscount struct {
	DiscountPercentage int // 1-100
	Cards              []string
}

// PercentageTier grants a percentage discount once a points threshold is met.
type PercentageTier struct {
	Name       string
	MinPoints  int
	Percentage int
}

// FixedTier grants a fixed amount off once a points threshold is met.
type FixedTier struct {
	Name      string
	MinPoints int
	Amount    decimal.Decimal
}

// VisitTier grants a named reward after a number of visits.
type VisitTier struct {
	Name   string
	Visits int
	Reward string
}

// ReferralReward rewards both sides of a referral.
type ReferralReward struct {
	ReferrerAmount decimal.Decimal
	RefereeAmount  decimal.Decimal
}

// LoyaltyProgram is the loyalty variant. Its Kind selects which tier list
// (or the referral pair) is in effect; the others must be empty.
type LoyaltyProgram struct {
	Kind            LoyaltyKind
	PercentageTiers []PercentageTier
	FixedTiers      []FixedTier
	VisitTiers      []VisitTier
	Referral        *ReferralReward
}

// =============================================================================
// DISCOUNT - Tagged union of the four variants
// =============================================================================

// Discount is a configured promotional rule.
//
// Branch scoping is mutually exclusive: either AllBranches is true and
// Branches is empty, or AllBranches is false and Branches is non-empty.
//
// The aggregate fields (TotalUsage, TotalAmount, AverageDiscount, LastUsed)
// are owned by the store's aggregation step. UpdateDiscount preserves them
// from the existing record; caller-supplied values are ignored.
type Discount struct {
	ID          string
	Name        string
	Kind        Kind
	Status      Status
	Branches    []string
	AllBranches bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string

	// Aggregate fields, derived from the application ledger.
	TotalUsage      int
	TotalAmount     decimal.Decimal
	AverageDiscount decimal.Decimal
	LastUsed        *time.Time

	// Variant payloads. Exactly one is non-nil, matching Kind.
	Percentage *PercentageDeal
	FixedPrice *FixedPriceDeal
	Bank       *BankDiscount
	Loyalty    *LoyaltyProgram
}

// IsActiveLoyalty reports whether this is a loyalty discount in the active
// state. Used by the exclusivity invariant.
func (d Discount) IsActiveLoyalty() bool {
	return d.Kind == KindLoyalty && d.Status == StatusActive
}

// AppliesToBranch reports whether the discount is in scope for a branch.
func (d Discount) AppliesToBranch(branch string) bool {
	if d.AllBranches {
		return true
	}
	for _, b := range d.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Every accessor returning discounts goes
// through Clone so external code can never mutate store internals.
func (d Discount) Clone() Discount {
	out := d
	if d.Branches != nil {
		out.Branches = append([]string(nil), d.Branches...)
	}
	if d.LastUsed != nil {
		t := *d.LastUsed
		out.LastUsed = &t
	}
	if d.Percentage != nil {
		p := *d.Percentage
		if d.Percentage.MaxAmount != nil {
			m := *d.Percentage.MaxAmount
			p.MaxAmount = &m
		}
		out.Percentage = &p
	}
	if d.FixedPrice != nil {
		fp := FixedPriceDeal{Options: append([]PriceOption(nil), d.FixedPrice.Options...)}
		out.FixedPrice = &fp
	}
	if d.Bank != nil {
		b := *d.Bank
		b.Cards = append([]string(nil), d.Bank.Cards...)
		out.Bank = &b
	}
	if d.Loyalty != nil {
		l := LoyaltyProgram{
			Kind:            d.Loyalty.Kind,
			PercentageTiers: append([]PercentageTier(nil), d.Loyalty.PercentageTiers...),
			FixedTiers:      append([]FixedTier(nil), d.Loyalty.FixedTiers...),
			VisitTiers:      append([]VisitTier(nil), d.Loyalty.VisitTiers...),
		}
		if d.Loyalty.Referral != nil {
			r := *d.Loyalty.Referral
			l.Referral = &r
		}
		out.Loyalty = &l
	}
	return out
}

// =============================================================================
// APPLICATION - One recorded use of a discount on an order
// =============================================================================

// Application is an immutable event: a discount applied to a real order.
// Applications are created only through Store.ApplyDiscount and removed
// only by the cascade when their parent discount is deleted.
type Application struct {
	ID             string
	DiscountID     string
	Timestamp      time.Time
	CustomerName   string
	CustomerPhone  string
	OrderID        string
	Branch         string
	OrderAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	Server         string
	BankCard       string // set only for bank-card payments
}

// ApplyInput carries the caller-supplied fields of an application. The
// store generates ID, OrderID, and Timestamp.
type ApplyInput struct {
	CustomerName   string
	CustomerPhone  string
	Branch         string
	OrderAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	Server         string
	BankCard       string
}
