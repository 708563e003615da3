package routes

import (
	"github.com/anjiri1684/medicamp/handlers"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Post("/create-payment-intent", handlers.CreatePaymentIntentHandler)
	api.Post("/payments", handlers.RecordPayment)
	api.Get("/payments", handlers.GetPaymentHistory)
}
