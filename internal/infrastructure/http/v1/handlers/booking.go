package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
	"tourops/internal/domain/booking"
	"tourops/internal/infrastructure/http/v1/dto"
)

// BookingHandler serves booking documents, their service items and payments.
type BookingHandler struct {
	*BaseHandler
	service *booking.Service
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(base *BaseHandler, service *booking.Service) *BookingHandler {
	return &BookingHandler{BaseHandler: base, service: service}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bk, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), bk); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, bk)
}

// Get handles GET /bookings/:id. The response includes the service items.
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	bk, err := h.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bk)
}

// Update handles PUT /bookings/:id.
func (h *BookingHandler) Update(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		h.Error(c, err)
		return
	}

	bk, err := h.service.Update(c.Request.Context(), bookingID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bk)
}

// List handles GET /bookings.
func (h *BookingHandler) List(c *gin.Context) {
	filter := booking.ListFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if s := c.Query("status"); s != "" {
		status := booking.Status(s)
		if !booking.IsValidStatus(status) {
			h.Error(c, apperror.NewValidation("unknown booking status").
				WithDetail("status", s))
			return
		}
		filter.Status = &status
	}
	if v := c.Query("clientId"); v != "" {
		clientID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId").WithDetail("value", v))
			return
		}
		filter.ClientID = &clientID
	}
	if v := c.Query("dateFrom"); v != "" {
		t, err := types.ParseDate(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom, expected YYYY-MM-DD").WithDetail("value", v))
			return
		}
		filter.DateFrom = &t
	}
	if v := c.Query("dateTo"); v != "" {
		t, err := types.ParseDate(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo, expected YYYY-MM-DD").WithDetail("value", v))
			return
		}
		filter.DateTo = &t
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// ChangeStatus handles POST /bookings/:id/status.
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	status := booking.Status(req.Status)
	if !booking.IsValidStatus(status) {
		h.Error(c, apperror.NewValidation("unknown booking status").
			WithDetail("status", req.Status))
		return
	}

	bk, err := h.service.ChangeStatus(c.Request.Context(), bookingID, status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bk)
}

// RegisterPayment handles POST /bookings/:id/payments.
func (h *BookingHandler) RegisterPayment(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RegisterPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bk, err := h.service.RegisterPayment(c.Request.Context(), bookingID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, bk)
}

// AddItem handles POST /bookings/:id/items.
func (h *BookingHandler) AddItem(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity(bookingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	totals, err := h.service.AddItem(c.Request.Context(), item)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.BookingWithTotalsResponse{
		BookingID: bookingID.String(),
		Totals:    totals,
		At:        time.Now().UTC(),
	})
}

// UpdateItem handles PUT /bookings/:id/items/:itemId.
func (h *BookingHandler) UpdateItem(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		h.Error(c, err)
		return
	}

	totals, err := h.service.UpdateItem(c.Request.Context(), itemID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BookingWithTotalsResponse{
		BookingID: bookingID.String(),
		Totals:    totals,
		At:        time.Now().UTC(),
	})
}

// DeleteItem handles DELETE /bookings/:id/items/:itemId.
func (h *BookingHandler) DeleteItem(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	totals, err := h.service.DeleteItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BookingWithTotalsResponse{
		BookingID: bookingID.String(),
		Totals:    totals,
		At:        time.Now().UTC(),
	})
}

// Recompute handles POST /bookings/:id/recompute.
func (h *BookingHandler) Recompute(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.Recompute(c.Request.Context(), bookingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BookingWithTotalsResponse{
		BookingID: bookingID.String(),
		Totals:    totals,
		At:        time.Now().UTC(),
	})
}
