package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gavelworks/auction-backend/internal/config"
	"github.com/gavelworks/auction-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func adminTestApp(t *testing.T, db *gorm.DB, cfg *config.Config, claims jwt.MapClaims) *fiber.App {
	t.Helper()
	app := fiber.New()
	if claims != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, claims))
			return c.Next()
		})
	}
	app.Use(AdminRequired(db, cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func newMiddlewareDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestAdminRequired(t *testing.T) {
	db := newMiddlewareDB(t)

	admin := models.User{ID: uuid.New(), Email: "root@example.com", Password: "x", Role: models.RoleAdmin}
	regular := models.User{ID: uuid.New(), Email: "user@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&regular).Error)

	claimsFor := func(u models.User) jwt.MapClaims {
		return jwt.MapClaims{"sub": u.ID.String(), "email": u.Email}
	}

	tests := []struct {
		name       string
		cfg        *config.Config
		claims     jwt.MapClaims
		adminToken string
		wantStatus int
	}{
		{"db role admin", &config.Config{}, claimsFor(admin), "", fiber.StatusOK},
		{"regular user", &config.Config{}, claimsFor(regular), "", fiber.StatusForbidden},
		{"no token at all", &config.Config{}, nil, "", fiber.StatusUnauthorized},
		{"listed email", &config.Config{AdminEmails: "user@example.com"}, claimsFor(regular), "", fiber.StatusOK},
		{"listed user id", &config.Config{AdminUserIDs: regular.ID.String()}, claimsFor(regular), "", fiber.StatusOK},
		{"operator token", &config.Config{AdminToken: "s3cret"}, nil, "s3cret", fiber.StatusOK},
		{"wrong operator token", &config.Config{AdminToken: "s3cret"}, nil, "nope", fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := adminTestApp(t, db, tt.cfg, tt.claims)
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.adminToken != "" {
				req.Header.Set("X-Admin-Token", tt.adminToken)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	userID := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
		}))
		return c.Next()
	})
	app.Get("/", func(c *fiber.Ctx) error {
		got, err := CurrentUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
