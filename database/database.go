package database

import (
	"fmt"
	"log"

	config "github.com/anjiri1684/medicamp/configs"
	"github.com/anjiri1684/medicamp/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Camp{},
		&models.Registration{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedOrganizer grants the organizer role to the configured account. Sign-in
// itself happens at the external identity provider.
func SeedOrganizer() {
	organizerEmail := config.Config("ORGANIZER_EMAIL")
	if organizerEmail == "" {
		log.Println("⚠️ ORGANIZER_EMAIL not set, skipping organizer seed.")
		return
	}

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", organizerEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for organizer user: %v", err)
		return
	}

	if count > 0 {
		if err := DB.Model(&models.User{}).Where("email = ?", organizerEmail).Update("role", "organizer").Error; err != nil {
			log.Fatalf("🔥 Failed to promote organizer user: %v", err)
		}
		log.Println("Organizer user already exists.")
		return
	}

	organizer := models.User{
		FullName: config.Config("ORGANIZER_NAME"),
		Email:    organizerEmail,
		Role:     "organizer",
	}

	if err := DB.Create(&organizer).Error; err != nil {
		log.Fatalf("🔥 Failed to seed organizer user: %v", err)
		return
	}

	log.Println("✅ Organizer user seeded successfully")
}
