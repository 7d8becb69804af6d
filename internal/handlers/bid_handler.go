package handlers

import (
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/middleware"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BidHandler struct {
	bidService *services.BidService
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

func (h *BidHandler) Place(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.LotID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A lot id is required",
		})
	}

	bid, err := h.bidService.PlaceBid(c.Context(), userID, req.LotID, req.BidAmount)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bid)
}

func (h *BidHandler) MyBids(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	bids, err := h.bidService.UserBids(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bids)
}

func (h *BidHandler) LotState(c *fiber.Ctx) error {
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid lot id",
		})
	}

	state, err := h.bidService.LotState(lotID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (h *BidHandler) LotsWithBids(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid auction id",
		})
	}

	lots, err := h.bidService.LotsWithBids(auctionID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lots)
}
