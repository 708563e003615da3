package jobs

import (
	"log"

	"github.com/anjiri1684/medicamp/database"
	"github.com/anjiri1684/medicamp/models"
)

// ReconcileParticipantCounts is the repair pass behind the capacity ledger:
// for every camp the counter must equal the number of active registrations.
// A crash between a registration delete and its slot release heals here.
func ReconcileParticipantCounts() {
	log.Println("Running job: ReconcileParticipantCounts...")

	var camps []models.Camp
	if err := database.DB.Find(&camps).Error; err != nil {
		log.Printf("Error loading camps for reconciliation: %v", err)
		return
	}

	for _, camp := range camps {
		var active int64
		if err := database.DB.Model(&models.Registration{}).
			Where("camp_id = ?", camp.ID).
			Count(&active).Error; err != nil {
			log.Printf("Error counting registrations for camp %s: %v", camp.ID, err)
			continue
		}

		if int(active) == camp.ParticipantCount {
			continue
		}

		log.Printf("⚠️ Camp %s counter drift: stored %d, active registrations %d. Repairing.",
			camp.ID, camp.ParticipantCount, active)

		if err := database.DB.Model(&models.Camp{}).
			Where("id = ?", camp.ID).
			UpdateColumn("participant_count", active).Error; err != nil {
			log.Printf("Error repairing counter for camp %s: %v", camp.ID, err)
		}
	}
}
