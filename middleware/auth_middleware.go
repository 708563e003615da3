package middleware

import (
	config "github.com/anjiri1684/medicamp/configs"
	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// ParticipantEmail returns the authenticated email claim. The identity
// provider owns sign-in; the email it vouches for is the registration owner
// on every core request, and requests without one are rejected.
func ParticipantEmail(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "malformed token claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "token carries no email claim")
	}
	return email, nil
}

// ParticipantName returns the display-name claim, if the provider sent one.
func ParticipantName(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	name, _ := claims["name"].(string)
	return name
}

// IsOrganizer reports whether the authenticated account holds the organizer
// role. Roles live in the local users table, not in the external token.
func IsOrganizer(c *fiber.Ctx) bool {
	email, err := ParticipantEmail(c)
	if err != nil {
		return false
	}
	var user models.User
	if err := database.DB.First(&user, "email = ?", email).Error; err != nil {
		return false
	}
	return user.Role == "organizer"
}

func OrganizerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsOrganizer(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Organizer access required",
			})
		}
		return c.Next()
	}
}
