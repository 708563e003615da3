package services

import (
	"errors"

	"github.com/anjiri1684/medicamp/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("participant already registered for this camp")
	ErrNotRegistrationOwner  = errors.New("registration belongs to another participant")
	ErrNotCancellable        = errors.New("registration can no longer be cancelled")
	ErrPaymentRequired       = errors.New("registration has not been paid for")
	ErrTransactionMismatch   = errors.New("registration already paid with a different transaction")
)

type RegistrationInput struct {
	Name             string
	Email            string
	Age              int
	Phone            string
	Gender           string
	EmergencyContact string
}

// RegisterParticipant creates the registration and reserves a camp slot in
// one transaction, so a failed reserve never leaves a dangling registration.
func RegisterParticipant(db *gorm.DB, campID uuid.UUID, input RegistrationInput) (*models.Registration, error) {
	var registration models.Registration
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Registration
		err := tx.Where("camp_id = ? AND participant_email = ?", campID, input.Email).First(&existing).Error
		if err == nil {
			return ErrDuplicateRegistration
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := ReserveSlot(tx, campID); err != nil {
			return err
		}

		registration = models.Registration{
			CampID:             campID,
			ParticipantName:    input.Name,
			ParticipantEmail:   input.Email,
			Age:                input.Age,
			Phone:              input.Phone,
			Gender:             input.Gender,
			EmergencyContact:   input.EmergencyContact,
			PaymentStatus:      models.PaymentStatusUnpaid,
			ConfirmationStatus: models.ConfirmationStatusPending,
		}
		if err := tx.Create(&registration).Error; err != nil {
			// Unique index backstop for two same-participant requests racing
			// past the pre-check.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateRegistration
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// CancelRegistration deletes the registration and releases its slot,
// returning the camp whose counter changed. Allowed only while the
// registration is unpaid and unconfirmed; organizers may cancel on behalf of
// any participant.
func CancelRegistration(db *gorm.DB, registrationID uuid.UUID, requesterEmail string, organizer bool) (uuid.UUID, error) {
	var campID uuid.UUID
	err := db.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.First(&registration, "id = ?", registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if !organizer && registration.ParticipantEmail != requesterEmail {
			return ErrNotRegistrationOwner
		}
		if registration.PaymentStatus == models.PaymentStatusPaid ||
			registration.ConfirmationStatus == models.ConfirmationStatusConfirmed {
			return ErrNotCancellable
		}

		// Conditional delete: a payment landing between the read above and
		// this statement leaves zero rows affected instead of orphaning a
		// paid registration.
		result := tx.Where("id = ? AND payment_status = ? AND confirmation_status = ?",
			registrationID, models.PaymentStatusUnpaid, models.ConfirmationStatusPending).
			Delete(&models.Registration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotCancellable
		}

		campID = registration.CampID
		return ReleaseSlot(tx, registration.CampID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return campID, nil
}

// MarkRegistrationPaid flips the registration to paid and appends the payment
// record. Idempotent by transaction ID: the processor or the client may
// deliver the same outcome more than once.
func MarkRegistrationPaid(db *gorm.DB, registrationID uuid.UUID, transactionID, method string) (*models.Payment, error) {
	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.Preload("Camp").First(&registration, "id = ?", registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		result := tx.Model(&models.Registration{}).
			Where("id = ? AND payment_status = ?", registrationID, models.PaymentStatusUnpaid).
			Update("payment_status", models.PaymentStatusPaid)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			// Already paid. Same transaction ID means a duplicate callback;
			// a different one is a processor anomaly that must surface.
			var existing models.Payment
			if err := tx.First(&existing, "registration_id = ?", registrationID).Error; err != nil {
				return err
			}
			if existing.TransactionID == transactionID {
				payment = existing
				return nil
			}
			return ErrTransactionMismatch
		}

		paidRegistrationID := registration.ID
		payment = models.Payment{
			RegistrationID: &paidRegistrationID,
			CampID:         registration.CampID,
			CampName:       registration.Camp.CampName,
			Email:          registration.ParticipantEmail,
			Amount:         registration.Camp.Fees,
			PaymentMethod:  method,
			TransactionID:  transactionID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTransactionMismatch
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ConfirmRegistration marks a paid registration confirmed. Confirming twice
// succeeds without side effects; confirmed registrations accept no further
// transitions (cancellation is already blocked by the paid status).
func ConfirmRegistration(db *gorm.DB, registrationID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.First(&registration, "id = ?", registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if registration.ConfirmationStatus == models.ConfirmationStatusConfirmed {
			return nil
		}
		if registration.PaymentStatus != models.PaymentStatusPaid {
			return ErrPaymentRequired
		}

		result := tx.Model(&models.Registration{}).
			Where("id = ? AND payment_status = ?", registrationID, models.PaymentStatusPaid).
			Update("confirmation_status", models.ConfirmationStatusConfirmed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentRequired
		}
		return nil
	})
}
