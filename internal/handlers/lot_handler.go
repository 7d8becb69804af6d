package handlers

import (
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/middleware"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LotHandler struct {
	lotService *services.LotService
}

func NewLotHandler(lotService *services.LotService) *LotHandler {
	return &LotHandler{lotService: lotService}
}

func (h *LotHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateLotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	lot, err := h.lotService.Create(c.Context(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

func (h *LotHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid lot id",
		})
	}

	var req dto.UpdateLotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	lot, err := h.lotService.Update(c.Context(), lotID, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lot)
}

func (h *LotHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid lot id",
		})
	}

	if err := h.lotService.Delete(c.Context(), lotID, userID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Lot deleted"})
}

func (h *LotHandler) RemoveImages(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.RemoveImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.lotService.RemoveImages(c.Context(), userID, req.Images); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Images removed"})
}

func (h *LotHandler) PresignImages(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid lot id",
		})
	}

	var req dto.LotUploadURLsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	urls, err := h.lotService.PresignImageUploads(c.Context(), lotID, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UploadURLsResponse{URLs: urls})
}

func (h *LotHandler) Get(c *fiber.Ctx) error {
	lotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid lot id",
		})
	}

	detail, err := h.lotService.Get(lotID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

func (h *LotHandler) ListForOwner(c *fiber.Ctx) error {
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

	limit := c.QueryInt("limit", 0)
	var cursor *uuid.UUID
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid cursor",
			})
		}
		cursor = &parsed
	}

	page, err := h.lotService.ListForOwner(auctionID, userID, limit, cursor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *LotHandler) ListPublic(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid auction id",
		})
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)

	lots, err := h.lotService.ListPublic(c.Context(), auctionID, page, perPage)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(lots)
}
