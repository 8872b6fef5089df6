//go:build integration

package integration

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/lapster88/anchorpoint/pkg/database"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

var allTables = []string{
	"guest_access_tokens",
	"payments",
	"trip_party_guests",
	"trip_parties",
	"guide_availabilities",
	"assignments",
	"trips",
	"trip_templates",
	"service_memberships",
	"guest_profiles",
	"users",
	"guide_services",
}

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "anchorpoint_test_db"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	// Drop and recreate tables for clean state
	dropTables()
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}
	testDB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_party_primary
		ON trip_party_guests (party_id)
		WHERE is_primary
	`)

	code := m.Run()

	dropTables()
	os.Exit(code)
}

func dropTables() {
	for _, table := range allTables {
		testDB.Exec("DROP TABLE IF EXISTS " + table + " CASCADE")
	}
}

func cleanTables() {
	for _, table := range allTables {
		testDB.Exec("DELETE FROM " + table)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
