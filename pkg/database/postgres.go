package database

import (
	"log"

	"github.com/lapster88/anchorpoint/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: a party has exactly one primary guest row
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_party_primary
		ON trip_party_guests (party_id)
		WHERE is_primary
	`)

	return db
}

// Migrate creates the schema; shared with the sqlite-backed test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GuideService{},
		&models.User{},
		&models.ServiceMembership{},
		&models.TripTemplate{},
		&models.Trip{},
		&models.Assignment{},
		&models.GuideAvailability{},
		&models.GuestProfile{},
		&models.TripParty{},
		&models.TripPartyGuest{},
		&models.Payment{},
		&models.GuestAccessToken{},
	)
}
