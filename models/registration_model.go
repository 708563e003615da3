package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"

	ConfirmationStatusPending   = "pending"
	ConfirmationStatusConfirmed = "confirmed"
)

// Registration is a participant's claim on a camp. Cancellation deletes the
// row, so every persisted registration is active and the unique index on
// (camp_id, participant_email) doubles as the duplicate-registration guard.
type Registration struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CampID uuid.UUID `gorm:"not null;uniqueIndex:idx_camp_participant" json:"campId"`

	ParticipantName  string `gorm:"size:255;not null" json:"name"`
	ParticipantEmail string `gorm:"size:255;not null;uniqueIndex:idx_camp_participant" json:"email"`

	Age              int    `gorm:"not null" json:"age"`
	Phone            string `gorm:"size:30;not null" json:"phone"`
	Gender           string `gorm:"size:20;not null" json:"gender"`
	EmergencyContact string `gorm:"size:30;not null" json:"emergencyContact"`

	PaymentStatus      string `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	ConfirmationStatus string `gorm:"size:20;not null;default:'pending'" json:"confirmation_status"`

	Camp Camp `gorm:"foreignkey:CampID" json:"camp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
