package handlers

import (
	"github.com/gin-gonic/gin"

	"tourops/internal/domain/voucher"
	"tourops/internal/infrastructure/http/v1/dto"
)

// VoucherHandler serves voucher issuance for bookings.
type VoucherHandler struct {
	*BaseHandler
	service *voucher.Service
}

// NewVoucherHandler creates a new voucher handler.
func NewVoucherHandler(base *BaseHandler, service *voucher.Service) *VoucherHandler {
	return &VoucherHandler{BaseHandler: base, service: service}
}

// Issue handles POST /bookings/:id/vouchers.
func (h *VoucherHandler) Issue(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.IssueVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v, err := req.ToEntity(bookingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Issue(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, v)
}

// ListByBooking handles GET /bookings/:id/vouchers.
func (h *VoucherHandler) ListByBooking(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	vouchers, err := h.service.ListByBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, vouchers)
}
