package handlers

import (
	"github.com/gin-gonic/gin"

	"tourops/internal/infrastructure/storage/postgres"
)

// AuditHandler serves the change history of audited entities.
type AuditHandler struct {
	*BaseHandler
	audit *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, audit *postgres.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, audit: audit}
}

// BookingHistory handles GET /bookings/:id/history.
func (h *AuditHandler) BookingHistory(c *gin.Context) {
	bookingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), "booking", bookingID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}
