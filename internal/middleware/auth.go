// Package middleware provides authentication and request-scoping middleware for the application.
package middleware

import (
	"strings"

	"yanjihub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AdminRequired is a middleware that enforces an admin JWT for moderation routes.
func AdminRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	tokenString := parts[1]

	// Parse and validate token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	// The admin token carries role=admin; anything else is rejected.
	roleClaim, ok := claims["role"]
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token structure - missing role",
		})
	}
	roleStr, ok := roleClaim.(string)
	if !ok || roleStr != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin access required",
		})
	}

	c.Locals("isAdmin", true)

	return c.Next()
}

// IsAdmin reports whether the current request passed AdminRequired.
func IsAdmin(c *fiber.Ctx) bool {
	v, ok := c.Locals("isAdmin").(bool)
	return ok && v
}

const viewerKeyHeader = "X-Viewer-Key"

// ViewerKey assigns every request a stable anonymous viewer identity.
// Browsers send back the key from a previous response; requests without
// one get a fresh UUID, echoed in the response header so the client can
// persist it. The key scopes like/dislike deduplication.
func ViewerKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(viewerKeyHeader)
		if _, err := uuid.Parse(key); err != nil {
			key = uuid.NewString()
		}
		c.Locals("viewerKey", key)
		c.Set(viewerKeyHeader, key)
		return c.Next()
	}
}

// ViewerKeyFromCtx returns the viewer key set by the ViewerKey middleware.
func ViewerKeyFromCtx(c *fiber.Ctx) string {
	if vk, ok := c.Locals("viewerKey").(string); ok {
		return vk
	}
	return ""
}
