package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is append-only. TransactionID comes from the payment processor and
// is the idempotency key: a duplicate callback can never insert a second row.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RegistrationID *uuid.UUID `gorm:"unique" json:"registrationId"`
	CampID         uuid.UUID  `gorm:"not null" json:"campId"`
	CampName       string     `gorm:"size:255;not null" json:"campName"`
	Email          string     `gorm:"size:255;not null" json:"email"`
	Amount         float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentMethod  string     `gorm:"size:50;not null" json:"paymentMethod"`
	TransactionID  string     `gorm:"size:255;not null;unique" json:"transactionId"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
