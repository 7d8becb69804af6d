package handlers

import (
	"errors"

	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gavelworks/auction-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// fail maps a service failure to its HTTP status and renders the standard
// error body. Unrecognized errors become an opaque 500.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrOwnLot),
		errors.Is(err, services.ErrAlreadyLeading),
		errors.Is(err, services.ErrBidderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, services.ErrNotOwner):
		status = fiber.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrBidConflict):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrStartDateNotFuture),
		errors.Is(err, services.ErrStartAfterEnd),
		errors.Is(err, services.ErrAuctionStarted),
		errors.Is(err, services.ErrAuctionFinished),
		errors.Is(err, services.ErrAuctionHasLots),
		errors.Is(err, services.ErrLotTitleRequired),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrNegativeMinBid),
		errors.Is(err, services.ErrLotLimitReached),
		errors.Is(err, services.ErrLotClosed),
		errors.Is(err, services.ErrBidBelowLeader),
		errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrBidTooHigh),
		errors.Is(err, services.ErrBadImageType),
		errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrTooManyImages):
		status = fiber.StatusBadRequest
		message = err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
