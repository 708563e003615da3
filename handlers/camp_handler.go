package handlers

import (
	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Read-only camp views. Camp metadata management happens elsewhere; these
// exist so the participant counter is observable the moment the ledger
// commits.

func GetAllCamps(c *fiber.Ctx) error {
	var camps []models.Camp
	if err := database.DB.Order("date_time asc").Find(&camps).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load camps"})
	}
	return c.JSON(camps)
}

func GetCampDetails(c *fiber.Ctx) error {
	campID, err := uuid.Parse(c.Params("campId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid camp ID format"})
	}

	var camp models.Camp
	if err := database.DB.First(&camp, "id = ?", campID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Camp not found"})
	}
	return c.JSON(camp)
}

func GetPopularCamps(c *fiber.Ctx) error {
	var camps []models.Camp
	if err := database.DB.Order("participant_count desc").Limit(6).Find(&camps).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load popular camps"})
	}
	return c.JSON(camps)
}
