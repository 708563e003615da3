package handlers

import (
	"log"
	"math"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/anjiri1684/medicamp/models"
	"github.com/anjiri1684/medicamp/payments"
	"github.com/anjiri1684/medicamp/services"
	"github.com/anjiri1684/medicamp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreatePaymentIntentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required,uuid"`
}

// CreatePaymentIntentHandler asks the processor for an intent covering the
// registration's camp fee and hands the client secret back. Nothing is
// persisted; an abandoned intent costs us nothing.
func CreatePaymentIntentHandler(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var req CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	registrationID, _ := uuid.Parse(req.RegistrationID)

	var registration models.Registration
	if err := database.DB.Preload("Camp").First(&registration, "id = ?", registrationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registration not found"})
	}
	if registration.ParticipantEmail != email {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your registration"})
	}
	if registration.PaymentStatus == models.PaymentStatusPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This registration is already paid"})
	}

	amountInCents := int64(math.Round(registration.Camp.Fees * 100))
	intent, err := payments.CreatePaymentIntent(amountInCents, "usd")
	if err != nil {
		log.Printf("🔥 CreatePaymentIntent failed for registration %s: %v", registrationID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}

type RecordPaymentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required,uuid"`
	TransactionID  string `json:"transactionId" validate:"required"`
}

// RecordPayment applies a completed charge to the registration. The intent is
// re-fetched from the processor, so a client can only report outcomes the
// processor stands behind; anything short of succeeded changes nothing.
func RecordPayment(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	registrationID, _ := uuid.Parse(req.RegistrationID)

	var registration models.Registration
	if err := database.DB.First(&registration, "id = ?", registrationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registration not found"})
	}
	if registration.ParticipantEmail != email && !middleware.IsOrganizer(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your registration"})
	}

	intent, err := payments.RetrievePaymentIntent(req.TransactionID)
	if err != nil {
		log.Printf("🔥 RetrievePaymentIntent failed for %s: %v", req.TransactionID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not verify payment with the processor"})
	}
	if intent.Status != "succeeded" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment has not succeeded, no changes applied"})
	}

	payment, err := services.MarkRegistrationPaid(database.DB, registrationID, intent.ID, "card")
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.PublishCampEvent(payment.CampID, websocket.EventPaid)
	go services.GenerateAndEmailReceipt(*payment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"insertedId": payment.ID,
		"payment":    payment,
	})
}

// GetPaymentHistory projects the caller's payment records.
func GetPaymentHistory(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var history []models.Payment
	if err := database.DB.
		Where("email = ?", email).
		Order("created_at desc").
		Find(&history).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load payment history"})
	}

	return c.JSON(history)
}
