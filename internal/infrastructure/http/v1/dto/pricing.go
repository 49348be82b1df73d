package dto

import (
	"github.com/shopspring/decimal"

	"tourops/internal/core/apperror"
	"tourops/internal/core/types"
	"tourops/internal/domain/pricing"
)

// TierDTO is one party-size price point.
type TierDTO struct {
	Bucket int             `json:"bucket" binding:"required"`
	Price  decimal.Decimal `json:"price"`
}

// CreateRatePeriodRequest creates a rate period. Dates travel as YYYY-MM-DD.
type CreateRatePeriodRequest struct {
	Scope     string    `json:"scope" binding:"required"`
	Label     string    `json:"label" binding:"required"`
	ValidFrom string    `json:"validFrom" binding:"required"`
	ValidTo   string    `json:"validTo" binding:"required"`
	Currency  string    `json:"currency" binding:"required"`
	Tiers     []TierDTO `json:"tiers" binding:"required"`
	Notes     string    `json:"notes"`
}

// ToEntity converts the request to a domain rate period.
func (r CreateRatePeriodRequest) ToEntity() (*pricing.RatePeriod, error) {
	validFrom, err := types.ParseDate(r.ValidFrom)
	if err != nil {
		return nil, apperror.NewValidation("invalid validFrom date, expected YYYY-MM-DD").
			WithDetail("field", "validFrom").
			WithDetail("value", r.ValidFrom)
	}
	validTo, err := types.ParseDate(r.ValidTo)
	if err != nil {
		return nil, apperror.NewValidation("invalid validTo date, expected YYYY-MM-DD").
			WithDetail("field", "validTo").
			WithDetail("value", r.ValidTo)
	}

	tiers := make(pricing.TierList, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		tiers = append(tiers, pricing.Tier{Bucket: t.Bucket, Price: t.Price})
	}

	period := pricing.NewRatePeriod(pricing.Scope(r.Scope), r.Label, validFrom, validTo, r.Currency, tiers)
	period.Notes = r.Notes
	return period, nil
}

// UpdateRatePeriodRequest replaces a rate period's content.
type UpdateRatePeriodRequest struct {
	Label     string    `json:"label" binding:"required"`
	ValidFrom string    `json:"validFrom" binding:"required"`
	ValidTo   string    `json:"validTo" binding:"required"`
	Currency  string    `json:"currency" binding:"required"`
	Tiers     []TierDTO `json:"tiers" binding:"required"`
	Notes     string    `json:"notes"`
	Version   int       `json:"version" binding:"required"`
}

// ApplyTo copies the request onto an existing period.
func (r UpdateRatePeriodRequest) ApplyTo(existing *pricing.RatePeriod) error {
	validFrom, err := types.ParseDate(r.ValidFrom)
	if err != nil {
		return apperror.NewValidation("invalid validFrom date, expected YYYY-MM-DD").
			WithDetail("field", "validFrom")
	}
	validTo, err := types.ParseDate(r.ValidTo)
	if err != nil {
		return apperror.NewValidation("invalid validTo date, expected YYYY-MM-DD").
			WithDetail("field", "validTo")
	}

	tiers := make(pricing.TierList, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		tiers = append(tiers, pricing.Tier{Bucket: t.Bucket, Price: t.Price})
	}

	existing.Label = r.Label
	existing.ValidFrom = validFrom
	existing.ValidTo = validTo
	existing.Currency = r.Currency
	existing.Tiers = tiers
	existing.Notes = r.Notes
	existing.Version = r.Version
	return nil
}

// ResolveRateRequest is the rate resolution query.
type ResolveRateRequest struct {
	Scope     string `form:"scope" binding:"required"`
	Date      string `form:"date" binding:"required"`
	PartySize int    `form:"partySize"`
}
