package handlers

import (
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/middleware"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateSession returns a checkout URL, or a billing-portal URL for callers
// who already subscribe.
func (h *BillingHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	url, err := h.billingService.CreateSession(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.BillingSessionResponse{URL: url})
}
