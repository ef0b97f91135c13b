/*
validate.go - Store-boundary payload validation

PURPOSE:
  Form-layer validation alone would leave the store trusting its
  callers, so validation is pushed into the store as a hardening
  measure: CreateDiscount, UpdateDiscount, and ApplyDiscount all reject
  malformed payloads before touching state.

RULES:
  - Kind must match exactly one variant payload (closed-set check)
  - Branch scoping is mutually exclusive (all-branches XOR explicit list)
  - Percentages are 1-100, money is non-negative
  - Applications need a positive order amount and a discount amount
    within [0, order amount]

All failures wrap ErrInvalidInput so callers can errors.Is() them.

SEE ALSO:
  - errors.go: ErrInvalidInput sentinel
  - store.go: Call sites
*/
package discount

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =============================================================================
// DISCOUNT VALIDATION
// =============================================================================

func validateDiscount(d Discount) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&d.Kind, validation.Required,
			validation.In(KindPercentage, KindFixedPrice, KindBank, KindLoyalty)),
		validation.Field(&d.Status, validation.Required,
			validation.In(StatusActive, StatusInactive)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateScoping(d); err != nil {
		return err
	}
	return validatePayload(d)
}

// validateScoping enforces the mutually exclusive branch scoping.
func validateScoping(d Discount) error {
	if d.AllBranches && len(d.Branches) > 0 {
		return fmt.Errorf("%w: branches must be empty when applying to all branches", ErrInvalidInput)
	}
	if !d.AllBranches && len(d.Branches) == 0 {
		return fmt.Errorf("%w: at least one branch is required", ErrInvalidInput)
	}
	return nil
}

// validatePayload checks that exactly the payload matching Kind is set and
// that its contents are well-formed. The switch is exhaustive over Kind;
// adding a variant without extending it fails the default case at runtime
// and the In() rule above first.
func validatePayload(d Discount) error {
	set := 0
	for _, present := range []bool{d.Percentage != nil, d.FixedPrice != nil, d.Bank != nil, d.Loyalty != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%w: exactly one variant payload must be set, got %d", ErrInvalidInput, set)
	}

	switch d.Kind {
	case KindPercentage:
		if d.Percentage == nil {
			return payloadMismatch(d.Kind)
		}
		return validatePercentageDeal(*d.Percentage)
	case KindFixedPrice:
		if d.FixedPrice == nil {
			return payloadMismatch(d.Kind)
		}
		return validateFixedPriceDeal(*d.FixedPrice)
	case KindBank:
		if d.Bank == nil {
			return payloadMismatch(d.Kind)
		}
		return validateBankDiscount(*d.Bank)
	case KindLoyalty:
		if d.Loyalty == nil {
			return payloadMismatch(d.Kind)
		}
		return validateLoyaltyProgram(*d.Loyalty)
	default:
		return fmt.Errorf("%w: unknown discount kind %q", ErrInvalidInput, d.Kind)
	}
}

func payloadMismatch(k Kind) error {
	return fmt.Errorf("%w: payload does not match kind %q", ErrInvalidInput, k)
}

func validatePercentageDeal(p PercentageDeal) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Percentage, validation.Required, validation.Min(1), validation.Max(100)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.MaxAmount != nil && p.MaxAmount.IsNegative() {
		return fmt.Errorf("%w: max amount cannot be negative", ErrInvalidInput)
	}
	return nil
}

func validateFixedPriceDeal(fp FixedPriceDeal) error {
	if len(fp.Options) == 0 {
		return fmt.Errorf("%w: fixed-price deal needs at least one price option", ErrInvalidInput)
	}
	for _, opt := range fp.Options {
		if opt.Name == "" {
			return fmt.Errorf("%w: price option name is required", ErrInvalidInput)
		}
		if !opt.Price.IsPositive() {
			return fmt.Errorf("%w: price option %q must have a positive price", ErrInvalidInput, opt.Name)
		}
	}
	return nil
}

func validateBankDiscount(b BankDiscount) error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.DiscountPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&b.Cards, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func validateLoyaltyProgram(l LoyaltyProgram) error {
	switch l.Kind {
	case LoyaltyPercentageTiers:
		if len(l.PercentageTiers) == 0 {
			return fmt.Errorf("%w: percentage-tier loyalty needs at least one tier", ErrInvalidInput)
		}
		for _, t := range l.PercentageTiers {
			if t.Percentage < 1 || t.Percentage > 100 {
				return fmt.Errorf("%w: tier %q percentage must be 1-100", ErrInvalidInput, t.Name)
			}
		}
	case LoyaltyFixedTiers:
		if len(l.FixedTiers) == 0 {
			return fmt.Errorf("%w: fixed-tier loyalty needs at least one tier", ErrInvalidInput)
		}
		for _, t := range l.FixedTiers {
			if !t.Amount.IsPositive() {
				return fmt.Errorf("%w: tier %q amount must be positive", ErrInvalidInput, t.Name)
			}
		}
	case LoyaltyVisitTiers:
		if len(l.VisitTiers) == 0 {
			return fmt.Errorf("%w: visit-tier loyalty needs at least one tier", ErrInvalidInput)
		}
		for _, t := range l.VisitTiers {
			if t.Visits < 1 {
				return fmt.Errorf("%w: tier %q must require at least one visit", ErrInvalidInput, t.Name)
			}
		}
	case LoyaltyReferral:
		if l.Referral == nil {
			return fmt.Errorf("%w: referral loyalty needs a referral reward", ErrInvalidInput)
		}
		if l.Referral.ReferrerAmount.IsNegative() || l.Referral.RefereeAmount.IsNegative() {
			return fmt.Errorf("%w: referral rewards cannot be negative", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown loyalty kind %q", ErrInvalidInput, l.Kind)
	}

	// The non-selected tier lists must stay empty so the sub-variant is
	// unambiguous.
	if err := loyaltyExclusiveLists(l); err != nil {
		return err
	}
	return nil
}

func loyaltyExclusiveLists(l LoyaltyProgram) error {
	check := func(kind LoyaltyKind, populated bool) error {
		if populated && l.Kind != kind {
			return fmt.Errorf("%w: loyalty payload for %q set on %q program", ErrInvalidInput, kind, l.Kind)
		}
		return nil
	}
	if err := check(LoyaltyPercentageTiers, len(l.PercentageTiers) > 0); err != nil {
		return err
	}
	if err := check(LoyaltyFixedTiers, len(l.FixedTiers) > 0); err != nil {
		return err
	}
	if err := check(LoyaltyVisitTiers, len(l.VisitTiers) > 0); err != nil {
		return err
	}
	return check(LoyaltyReferral, l.Referral != nil)
}

// =============================================================================
// APPLICATION VALIDATION
// =============================================================================

func validateApplyInput(in ApplyInput) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.CustomerName, validation.Required),
		validation.Field(&in.CustomerPhone, validation.Required),
		validation.Field(&in.Branch, validation.Required),
		validation.Field(&in.Server, validation.Required),
		validation.Field(&in.OrderAmount, validation.By(positiveDecimal)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.DiscountAmount.IsNegative() {
		return fmt.Errorf("%w: discount amount cannot be negative", ErrInvalidInput)
	}
	if in.DiscountAmount.GreaterThan(in.OrderAmount) {
		return fmt.Errorf("%w: discount amount cannot exceed order amount", ErrInvalidInput)
	}
	return nil
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal amount")
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}
