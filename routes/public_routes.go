package routes

import (
	"github.com/anjiri1684/medicamp/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/camps", handlers.GetAllCamps)
	api.Get("/camps/popular", handlers.GetPopularCamps)
	api.Get("/camp-details/:campId", handlers.GetCampDetails)
}
