package handlers

import (
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/middleware"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
}

func NewAuctionHandler(auctionService *services.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

func (h *AuctionHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	auction, err := h.auctionService.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auction)
}

func (h *AuctionHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	auctions, err := h.auctionService.ListByOwner(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(auctions)
}

func (h *AuctionHandler) ListPublic(c *fiber.Ctx) error {
	auctions, err := h.auctionService.ListPublic()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(auctions)
}

func (h *AuctionHandler) Get(c *fiber.Ctx) error {
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

	auction, err := h.auctionService.GetOwned(auctionID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(auction)
}

func (h *AuctionHandler) Update(c *fiber.Ctx) error {
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

	var req dto.UpdateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	auction, err := h.auctionService.Update(c.Context(), auctionID, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(auction)
}

func (h *AuctionHandler) Delete(c *fiber.Ctx) error {
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

	auction, err := h.auctionService.Delete(c.Context(), auctionID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(auction)
}

func (h *AuctionHandler) PresignImage(c *fiber.Ctx) error {
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

	var req dto.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	url, err := h.auctionService.PresignImageUpload(c.Context(), auctionID, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UploadURLResponse{URL: url})
}
