package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"clothstore/internal/models"
	"clothstore/internal/services"
)

// Keys under which AuthRequired stores the bearer's claims in fiber.Ctx locals.
const (
	LocalUserID   = "user_id"
	LocalUserType = "user_type"
	LocalEmail    = "email"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserType, claims.UserType)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// SellerRequired rejects bearers that are not merchants. It must run after AuthRequired.
func SellerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userType, _ := c.Locals(LocalUserType).(models.UserType); userType != models.UserTypeMerchant {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Seller account required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
