package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Camp struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CampName               string    `gorm:"size:255;not null" json:"campName"`
	Image                  string    `gorm:"size:255" json:"image"`
	Fees                   float64   `gorm:"type:numeric(10,2);not null;check:fees >= 0" json:"fees"`
	DateTime               time.Time `gorm:"not null" json:"datetime"`
	Location               string    `gorm:"size:255;not null" json:"location"`
	HealthcareProfessional string    `gorm:"size:255" json:"healthcareProfessional"`
	Description            string    `gorm:"type:text" json:"description"`

	// Owned by the capacity ledger; everything else treats it as read-only.
	ParticipantCount int `gorm:"not null;default:0" json:"participantCount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Camp) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
