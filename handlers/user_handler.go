package handlers

import (
	"errors"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/anjiri1684/medicamp/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SyncUserRequest struct {
	FullName string  `json:"full_name" validate:"required"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// SyncUser upserts the profile the identity provider reported at sign-in.
// The email always comes from the verified token, and an existing role is
// never downgraded by a profile sync.
func SyncUser(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var req SyncUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	err = database.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			FullName: req.FullName,
			Email:    email,
			Role:     "participant",
			PhotoURL: req.PhotoURL,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up user"})
	}

	user.FullName = req.FullName
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(user)
}

// GetMyRole tells the dashboard whether to show the organizer views.
func GetMyRole(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, "email = ?", email).Error; err != nil {
		return c.JSON(fiber.Map{"role": "participant"})
	}
	return c.JSON(fiber.Map{"role": user.Role})
}
