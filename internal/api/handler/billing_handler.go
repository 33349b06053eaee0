package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/watergb/billing-system/internal/core/domain"
	"github.com/watergb/billing-system/internal/core/ports"
)

// BillingHandler exposes the manual billing trigger. It calls the exact same
// BillingService.Run the scheduler uses, so manual and scheduled cycles cannot
// drift apart.
type BillingHandler struct {
	billing ports.BillingService
}

func NewBillingHandler(billing ports.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Run handles POST /v1/billing/run (admin only). It runs a billing cycle
// immediately, bypassing the last-day-of-month check.
//
// @Summary      Trigger a billing cycle
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.BillingResult
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  domain.BillingResult
// @Router       /v1/billing/run [post]
func (h *BillingHandler) Run(c echo.Context) error {
	result, err := h.billing.Run(c.Request().Context(), domain.TriggerManual)
	if err != nil {
		// Enumeration failed; return the aggregate with Success=false so the
		// caller sees the same shape as a completed run.
		return c.JSON(http.StatusInternalServerError, result)
	}
	return c.JSON(http.StatusOK, result)
}
