package services

import (
	"errors"

	"github.com/anjiri1684/medicamp/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCampNotFound = errors.New("camp not found")

// The participant counter is only ever touched through ReserveSlot and
// ReleaseSlot. Both are single UPDATE statements so concurrent registrations
// and cancellations against the same camp cannot lose updates.

func ReserveSlot(tx *gorm.DB, campID uuid.UUID) error {
	result := tx.Model(&models.Camp{}).
		Where("id = ?", campID).
		UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampNotFound
	}
	return nil
}

// ReleaseSlot decrements the counter, floored at zero. Releasing an empty
// camp is a no-op so the call stays safe to retry or re-drive from the
// repair job.
func ReleaseSlot(tx *gorm.DB, campID uuid.UUID) error {
	result := tx.Model(&models.Camp{}).
		Where("id = ?", campID).
		UpdateColumn("participant_count", gorm.Expr("CASE WHEN participant_count > 0 THEN participant_count - 1 ELSE 0 END"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampNotFound
	}
	return nil
}
