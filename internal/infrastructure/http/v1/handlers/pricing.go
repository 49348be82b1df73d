package handlers

import (
	"github.com/gin-gonic/gin"

	"tourops/internal/core/apperror"
	"tourops/internal/core/types"
	"tourops/internal/domain/pricing"
	"tourops/internal/infrastructure/http/v1/dto"
)

// PricingHandler serves the rate period catalog and rate resolution.
type PricingHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(base *BaseHandler, service *pricing.Service) *PricingHandler {
	return &PricingHandler{BaseHandler: base, service: service}
}

// CreateRatePeriod handles POST /rate-periods.
func (h *PricingHandler) CreateRatePeriod(c *gin.Context) {
	var req dto.CreateRatePeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	period, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), period); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, period)
}

// UpdateRatePeriod handles PUT /rate-periods/:id.
func (h *PricingHandler) UpdateRatePeriod(c *gin.Context) {
	periodID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRatePeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	period, err := h.service.GetByID(ctx, periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(period); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, period); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, period)
}

// GetRatePeriod handles GET /rate-periods/:id.
func (h *PricingHandler) GetRatePeriod(c *gin.Context) {
	periodID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	period, err := h.service.GetByID(c.Request.Context(), periodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, period)
}

// ListRatePeriods handles GET /rate-periods?scope=.
func (h *PricingHandler) ListRatePeriods(c *gin.Context) {
	scope := c.Query("scope")
	if scope == "" {
		h.Error(c, apperror.NewValidation("scope query parameter is required").
			WithDetail("field", "scope"))
		return
	}

	activeOnly := c.DefaultQuery("activeOnly", "true") == "true"

	periods, err := h.service.ListByScope(c.Request.Context(), pricing.Scope(scope), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, periods)
}

// DeactivateRatePeriod handles POST /rate-periods/:id/deactivate.
// Periods are retired, never deleted.
func (h *PricingHandler) DeactivateRatePeriod(c *gin.Context) {
	periodID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), periodID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ResolveRate handles GET /rates/resolve?scope=&date=&partySize=.
func (h *PricingHandler) ResolveRate(c *gin.Context) {
	var req dto.ResolveRateRequest
	if !h.BindQuery(c, &req) {
		return
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", "date").
			WithDetail("value", req.Date))
		return
	}

	quote, err := h.service.Resolve(c.Request.Context(), pricing.Scope(req.Scope), date, req.PartySize)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, quote)
}
