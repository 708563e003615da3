package routes

import (
	"github.com/anjiri1684/medicamp/handlers"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegistrationRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Post("/camp-register", handlers.RegisterForCamp)
	api.Delete("/cancel-registration/:registrationId", handlers.CancelRegistration)
	api.Get("/registered-camps", handlers.GetMyRegisteredCamps)
	api.Get("/registered-camp/:registrationId", handlers.GetRegisteredCamp)

	organizer := app.Group("/api/v1", middleware.Protected(), middleware.OrganizerRequired())
	organizer.Get("/camps-registered", handlers.GetAllRegisteredCamps)
	organizer.Patch("/registrations/:registrationId/confirm", handlers.ConfirmRegistration)
}
