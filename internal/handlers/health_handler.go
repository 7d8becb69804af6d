package handlers

import (
	"time"

	"github.com/gavelworks/auction-backend/internal/database"
	"github.com/gavelworks/auction-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redisClient *redis.Client
}

func NewHealthHandler(redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{redisClient: redisClient}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	cacheStatus := "ok"
	if h.redisClient == nil {
		cacheStatus = "disabled"
	} else if err := h.redisClient.Ping(c.Context()).Err(); err != nil {
		cacheStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}
