package routes

import (
	"github.com/anjiri1684/medicamp/handlers"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Post("/users", handlers.SyncUser)
	api.Get("/users/me/role", handlers.GetMyRole)
}
