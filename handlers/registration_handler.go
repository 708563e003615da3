package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/middleware"
	"github.com/anjiri1684/medicamp/models"
	"github.com/anjiri1684/medicamp/notifications"
	"github.com/anjiri1684/medicamp/services"
	"github.com/anjiri1684/medicamp/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// serviceError maps the registration/ledger error kinds onto HTTP statuses.
// Anything unrecognized is an infrastructure fault: logged, returned generic.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCampNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Camp not found"})
	case errors.Is(err, services.ErrRegistrationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registration not found"})
	case errors.Is(err, services.ErrDuplicateRegistration):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already registered for this camp"})
	case errors.Is(err, services.ErrNotRegistrationOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your registration"})
	case errors.Is(err, services.ErrNotCancellable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Paid or confirmed registrations cannot be cancelled"})
	case errors.Is(err, services.ErrPaymentRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Registration must be paid before it can be confirmed"})
	case errors.Is(err, services.ErrTransactionMismatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Registration was already paid with a different transaction"})
	default:
		log.Printf("🔥 Unexpected service error: %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please try again"})
	}
}

type RegisterCampRequest struct {
	CampID           string `json:"campId" validate:"required,uuid"`
	Age              int    `json:"age" validate:"required,gt=0,lt=130"`
	Phone            string `json:"phone" validate:"required,min=7,max=20"`
	Gender           string `json:"gender" validate:"required,oneof=male female other"`
	EmergencyContact string `json:"emergencyContact" validate:"required,min=7,max=20"`
}

func RegisterForCamp(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var req RegisterCampRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	campID, _ := uuid.Parse(req.CampID)

	registration, err := services.RegisterParticipant(database.DB, campID, services.RegistrationInput{
		Name:             middleware.ParticipantName(c),
		Email:            email,
		Age:              req.Age,
		Phone:            req.Phone,
		Gender:           req.Gender,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.PublishCampEvent(campID, websocket.EventRegistered)
	go func(reg models.Registration) {
		var camp models.Camp
		if err := database.DB.First(&camp, "id = ?", reg.CampID).Error; err == nil {
			notifications.SendEmail(reg.ParticipantName, reg.ParticipantEmail,
				"Registration Received",
				fmt.Sprintf("<h1>See You There!</h1><p>You are registered for <b>%s</b>. Complete your payment from the dashboard to secure your spot.</p>", camp.CampName))
		}
	}(*registration)

	return c.Status(fiber.StatusCreated).JSON(registration)
}

func CancelRegistration(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}
	registrationID, err := uuid.Parse(c.Params("registrationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid registration ID format"})
	}

	campID, err := services.CancelRegistration(database.DB, registrationID, email, middleware.IsOrganizer(c))
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.PublishCampEvent(campID, websocket.EventCancelled)

	return c.JSON(fiber.Map{"deletedCount": 1, "message": "Registration cancelled"})
}

func ConfirmRegistration(c *fiber.Ctx) error {
	registrationID, err := uuid.Parse(c.Params("registrationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid registration ID format"})
	}

	if err := services.ConfirmRegistration(database.DB, registrationID); err != nil {
		return serviceError(c, err)
	}

	var registration models.Registration
	if err := database.DB.Preload("Camp").First(&registration, "id = ?", registrationID).Error; err == nil {
		go websocket.PublishCampEvent(registration.CampID, websocket.EventConfirmed)
		go notifications.SendEmail(registration.ParticipantName, registration.ParticipantEmail,
			"Registration Confirmed",
			fmt.Sprintf("<h1>You're In!</h1><p>Your registration for <b>%s</b> has been confirmed by the organizer.</p>", registration.Camp.CampName))
	}

	return c.JSON(fiber.Map{"message": "Registration confirmed"})
}

// GetMyRegisteredCamps lists the caller's active registrations. The owner is
// always the authenticated email, never a query parameter.
func GetMyRegisteredCamps(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}

	var registrations []models.Registration
	if err := database.DB.
		Preload("Camp").
		Where("participant_email = ?", email).
		Order("created_at desc").
		Find(&registrations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load registered camps"})
	}

	return c.JSON(registrations)
}

// GetRegisteredCamp returns one registration with its camp fee, as used by
// the payment form.
func GetRegisteredCamp(c *fiber.Ctx) error {
	email, err := middleware.ParticipantEmail(c)
	if err != nil {
		return err
	}
	registrationID, err := uuid.Parse(c.Params("registrationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid registration ID format"})
	}

	var registration models.Registration
	if err := database.DB.Preload("Camp").First(&registration, "id = ?", registrationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registration not found"})
	}
	if registration.ParticipantEmail != email && !middleware.IsOrganizer(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your registration"})
	}

	return c.JSON(registration)
}

// GetAllRegisteredCamps lists every active registration for organizers.
func GetAllRegisteredCamps(c *fiber.Ctx) error {
	var registrations []models.Registration
	if err := database.DB.
		Preload("Camp").
		Order("created_at desc").
		Find(&registrations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load registrations"})
	}

	return c.JSON(registrations)
}
