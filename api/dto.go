/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Field names
  are camelCase to match the dashboard frontend.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Internally money is decimal.Decimal; on the wire it is a JSON number.
  Conversions happen only in this file.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/discount-engine/discount"
)

// =============================================================================
// DISCOUNT TYPES
// =============================================================================

// DiscountDTO represents a discount in API responses.
type DiscountDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Status             string   `json:"status"`
	Branches           []string `json:"branches,omitempty"`
	ApplyToAllBranches bool     `json:"applyToAllBranches"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
	CreatedBy          string   `json:"createdBy"`

	TotalUsage      int     `json:"totalUsage"`
	TotalAmount     float64 `json:"totalAmount"`
	AverageDiscount float64 `json:"averageDiscount"`
	LastUsed        *string `json:"lastUsed"`

	PercentageDeal *PercentageDealDTO `json:"percentageDeal,omitempty"`
	FixedPriceDeal *FixedPriceDealDTO `json:"fixedPriceDeal,omitempty"`
	BankDiscount   *BankDiscountDTO   `json:"bankDiscount,omitempty"`
	Loyalty        *LoyaltyDTO        `json:"loyalty,omitempty"`
}

type PercentageDealDTO struct {
	Percentage int      `json:"percentage"`
	MaxAmount  *float64 `json:"maxAmount,omitempty"`
}

type PriceOptionDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type FixedPriceDealDTO struct {
	Options []PriceOptionDTO `json:"options"`
}

type BankDiscountDTO struct {
	DiscountPercentage int      `json:"discountPercentage"`
	Cards              []string `json:"cards"`
}

type PercentageTierDTO struct {
	Name       string `json:"name"`
	MinPoints  int    `json:"minPoints"`
	Percentage int    `json:"percentage"`
}

type FixedTierDTO struct {
	Name      string  `json:"name"`
	MinPoints int     `json:"minPoints"`
	Amount    float64 `json:"amount"`
}

type VisitTierDTO struct {
	Name   string `json:"name"`
	Visits int    `json:"visits"`
	Reward string `json:"reward"`
}

type ReferralRewardDTO struct {
	ReferrerAmount float64 `json:"referrerAmount"`
	RefereeAmount  float64 `json:"refereeAmount"`
}

type LoyaltyDTO struct {
	LoyaltyType     string              `json:"loyaltyType"`
	PercentageTiers []PercentageTierDTO `json:"percentageTiers,omitempty"`
	FixedTiers      []FixedTierDTO      `json:"fixedTiers,omitempty"`
	VisitTiers      []VisitTierDTO      `json:"visitTiers,omitempty"`
	Referral        *ReferralRewardDTO  `json:"referral,omitempty"`
}

// UpsertDiscountRequest is the body for create and update. Aggregate
// fields are not accepted: the store owns them.
type UpsertDiscountRequest struct {
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Status             string             `json:"status"`
	Branches           []string           `json:"branches"`
	ApplyToAllBranches bool               `json:"applyToAllBranches"`
	CreatedBy          string             `json:"createdBy"`
	PercentageDeal     *PercentageDealDTO `json:"percentageDeal"`
	FixedPriceDeal     *FixedPriceDealDTO `json:"fixedPriceDeal"`
	BankDiscount       *BankDiscountDTO   `json:"bankDiscount"`
	Loyalty            *LoyaltyDTO        `json:"loyalty"`
}

// =============================================================================
// APPLICATION TYPES
// =============================================================================

// ApplicationDTO represents one ledger entry in API responses.
type ApplicationDTO struct {
	ID             string  `json:"id"`
	DiscountID     string  `json:"discountId"`
	Timestamp      string  `json:"timestamp"`
	CustomerName   string  `json:"customerName"`
	CustomerPhone  string  `json:"customerPhone"`
	OrderID        string  `json:"orderId"`
	Branch         string  `json:"branch"`
	OrderAmount    float64 `json:"orderAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Server         string  `json:"server"`
	BankCard       string  `json:"bankCard,omitempty"`
}

// ApplyDiscountRequest is the body for recording an application.
type ApplyDiscountRequest struct {
	CustomerName   string  `json:"customerName"`
	CustomerPhone  string  `json:"customerPhone"`
	Branch         string  `json:"branch"`
	OrderAmount    float64 `json:"orderAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	Server         string  `json:"server"`
	BankCard       string  `json:"bankCard"`
}

// =============================================================================
// LIST / REPORT TYPES
// =============================================================================

// PageDTO wraps a paginated discount list.
type PageDTO struct {
	Items      []DiscountDTO `json:"items"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
}

// UsageReportRow is one line of the usage report.
type UsageReportRow struct {
	DiscountID      string  `json:"discountId"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	TotalUsage      int     `json:"totalUsage"`
	TotalAmount     float64 `json:"totalAmount"`
	AverageDiscount float64 `json:"averageDiscount"`
	LastUsed        *string `json:"lastUsed"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDiscountDTO(d discount.Discount) DiscountDTO {
	total, _ := d.TotalAmount.Float64()
	avg, _ := d.AverageDiscount.Float64()

	dto := DiscountDTO{
		ID:                 d.ID,
		Name:               d.Name,
		Type:               string(d.Kind),
		Status:             string(d.Status),
		Branches:           d.Branches,
		ApplyToAllBranches: d.AllBranches,
		CreatedAt:          d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          d.UpdatedAt.Format(time.RFC3339),
		CreatedBy:          d.CreatedBy,
		TotalUsage:         d.TotalUsage,
		TotalAmount:        total,
		AverageDiscount:    avg,
	}
	if d.LastUsed != nil {
		s := d.LastUsed.Format(time.RFC3339)
		dto.LastUsed = &s
	}

	if d.Percentage != nil {
		p := PercentageDealDTO{Percentage: d.Percentage.Percentage}
		if d.Percentage.MaxAmount != nil {
			m, _ := d.Percentage.MaxAmount.Float64()
			p.MaxAmount = &m
		}
		dto.PercentageDeal = &p
	}
	if d.FixedPrice != nil {
		fp := FixedPriceDealDTO{Options: make([]PriceOptionDTO, len(d.FixedPrice.Options))}
		for i, opt := range d.FixedPrice.Options {
			price, _ := opt.Price.Float64()
			fp.Options[i] = PriceOptionDTO{Name: opt.Name, Price: price}
		}
		dto.FixedPriceDeal = &fp
	}
	if d.Bank != nil {
		dto.BankDiscount = &BankDiscountDTO{
			DiscountPercentage: d.Bank.DiscountPercentage,
			Cards:              d.Bank.Cards,
		}
	}
	if d.Loyalty != nil {
		dto.Loyalty = toLoyaltyDTO(*d.Loyalty)
	}
	return dto
}

func toLoyaltyDTO(l discount.LoyaltyProgram) *LoyaltyDTO {
	dto := &LoyaltyDTO{LoyaltyType: string(l.Kind)}
	for _, t := range l.PercentageTiers {
		dto.PercentageTiers = append(dto.PercentageTiers, PercentageTierDTO{Name: t.Name, MinPoints: t.MinPoints, Percentage: t.Percentage})
	}
	for _, t := range l.FixedTiers {
		amount, _ := t.Amount.Float64()
		dto.FixedTiers = append(dto.FixedTiers, FixedTierDTO{Name: t.Name, MinPoints: t.MinPoints, Amount: amount})
	}
	for _, t := range l.VisitTiers {
		dto.VisitTiers = append(dto.VisitTiers, VisitTierDTO{Name: t.Name, Visits: t.Visits, Reward: t.Reward})
	}
	if l.Referral != nil {
		referrer, _ := l.Referral.ReferrerAmount.Float64()
		referee, _ := l.Referral.RefereeAmount.Float64()
		dto.Referral = &ReferralRewardDTO{ReferrerAmount: referrer, RefereeAmount: referee}
	}
	return dto
}

func fromUpsertRequest(req UpsertDiscountRequest) discount.Discount {
	d := discount.Discount{
		Name:        req.Name,
		Kind:        discount.Kind(req.Type),
		Status:      discount.Status(req.Status),
		Branches:    req.Branches,
		AllBranches: req.ApplyToAllBranches,
		CreatedBy:   req.CreatedBy,
	}

	if req.PercentageDeal != nil {
		p := discount.PercentageDeal{Percentage: req.PercentageDeal.Percentage}
		if req.PercentageDeal.MaxAmount != nil {
			m := decimal.NewFromFloat(*req.PercentageDeal.MaxAmount)
			p.MaxAmount = &m
		}
		d.Percentage = &p
	}
	if req.FixedPriceDeal != nil {
		fp := discount.FixedPriceDeal{Options: make([]discount.PriceOption, len(req.FixedPriceDeal.Options))}
		for i, opt := range req.FixedPriceDeal.Options {
			fp.Options[i] = discount.PriceOption{Name: opt.Name, Price: decimal.NewFromFloat(opt.Price)}
		}
		d.FixedPrice = &fp
	}
	if req.BankDiscount != nil {
		d.Bank = &discount.BankDiscount{
			DiscountPercentage: req.BankDiscount.DiscountPercentage,
			Cards:              req.BankDiscount.Cards,
		}
	}
	if req.Loyalty != nil {
		d.Loyalty = fromLoyaltyDTO(*req.Loyalty)
	}
	return d
}

func fromLoyaltyDTO(l LoyaltyDTO) *discount.LoyaltyProgram {
	program := &discount.LoyaltyProgram{Kind: discount.LoyaltyKind(l.LoyaltyType)}
	for _, t := range l.PercentageTiers {
		program.PercentageTiers = append(program.PercentageTiers, discount.PercentageTier{Name: t.Name, MinPoints: t.MinPoints, Percentage: t.Percentage})
	}
	for _, t := range l.FixedTiers {
		program.FixedTiers = append(program.FixedTiers, discount.FixedTier{Name: t.Name, MinPoints: t.MinPoints, Amount: decimal.NewFromFloat(t.Amount)})
	}
	for _, t := range l.VisitTiers {
		program.VisitTiers = append(program.VisitTiers, discount.VisitTier{Name: t.Name, Visits: t.Visits, Reward: t.Reward})
	}
	if l.Referral != nil {
		program.Referral = &discount.ReferralReward{
			ReferrerAmount: decimal.NewFromFloat(l.Referral.ReferrerAmount),
			RefereeAmount:  decimal.NewFromFloat(l.Referral.RefereeAmount),
		}
	}
	return program
}

func toApplicationDTO(a discount.Application) ApplicationDTO {
	order, _ := a.OrderAmount.Float64()
	amount, _ := a.DiscountAmount.Float64()
	return ApplicationDTO{
		ID:             a.ID,
		DiscountID:     a.DiscountID,
		Timestamp:      a.Timestamp.Format(time.RFC3339),
		CustomerName:   a.CustomerName,
		CustomerPhone:  a.CustomerPhone,
		OrderID:        a.OrderID,
		Branch:         a.Branch,
		OrderAmount:    order,
		DiscountAmount: amount,
		Server:         a.Server,
		BankCard:       a.BankCard,
	}
}

func toUsageReportRow(d discount.Discount) UsageReportRow {
	total, _ := d.TotalAmount.Float64()
	avg, _ := d.AverageDiscount.Float64()
	row := UsageReportRow{
		DiscountID:      d.ID,
		Name:            d.Name,
		Type:            string(d.Kind),
		Status:          string(d.Status),
		TotalUsage:      d.TotalUsage,
		TotalAmount:     total,
		AverageDiscount: avg,
	}
	if d.LastUsed != nil {
		s := d.LastUsed.Format(time.RFC3339)
		row.LastUsed = &s
	}
	return row
}
