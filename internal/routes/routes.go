package routes

import (
	"time"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/handlers"
	"github.com/gavelworks/auction-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	auctionHandler *handlers.AuctionHandler,
	lotHandler *handlers.LotHandler,
	bidHandler *handlers.BidHandler,
	billingHandler *handlers.BillingHandler,
	webhookHandler *handlers.WebhookHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public catalog
	api.Get("/auctions", auctionHandler.ListPublic)
	api.Get("/auctions/:id/lots", lotHandler.ListPublic)
	api.Get("/lots/:id", lotHandler.Get)
	api.Get("/lots/:id/state", bidHandler.LotState)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Bidding — any authenticated user
	api.Post("/bids", middleware.JWTProtected(cfg), bidHandler.Place)
	api.Get("/bids", middleware.JWTProtected(cfg), bidHandler.MyBids)

	// Billing — any authenticated user
	api.Post("/billing/session", middleware.JWTProtected(cfg), billingHandler.CreateSession)

	// Seller dashboard (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/auctions", auctionHandler.Create)
	admin.Get("/auctions", auctionHandler.ListMine)
	admin.Get("/auctions/:id", auctionHandler.Get)
	admin.Put("/auctions/:id", auctionHandler.Update)
	admin.Delete("/auctions/:id", auctionHandler.Delete)
	admin.Post("/auctions/:id/image-url", auctionHandler.PresignImage)
	admin.Get("/auctions/:id/lots", lotHandler.ListForOwner)
	admin.Get("/auctions/:id/results", bidHandler.LotsWithBids)
	admin.Post("/lots", lotHandler.Create)
	admin.Put("/lots/:id", lotHandler.Update)
	admin.Delete("/lots/:id", lotHandler.Delete)
	admin.Post("/lots/:id/image-urls", lotHandler.PresignImages)
	admin.Post("/images/remove", lotHandler.RemoveImages)

	// Webhooks — verified by provider signature, no JWT
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)
}
