package handlers

import (
	"log/slog"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82/webhook"
)

type WebhookHandler struct {
	billingService *services.BillingService
	cfg            *config.Config
}

func NewWebhookHandler(billingService *services.BillingService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{billingService: billingService, cfg: cfg}
}

// HandleStripe verifies the event signature before applying it.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), h.cfg.StripeWebhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook signature",
		})
	}

	if err := h.billingService.HandleWebhookEvent(&event); err != nil {
		slog.Error("webhook processing failed", "event_type", event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_type", event.Type)
	return c.JSON(fiber.Map{"received": true})
}
