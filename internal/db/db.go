package db

import (
	"errors"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres using DATABASE_URL.
func Open() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate runs GORM auto-migrations for the core tables and creates the
// partial unique index that limits each room to a single submitting round.
// GORM struct tags cannot express a predicate, so that index is raw SQL.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(
		&Deck{},
		&Card{},
		&Room{},
		&Player{},
		&Round{},
		&Submission{},
		&HandCard{},
		&Session{},
		&Event{},
	); err != nil {
		return err
	}
	if err := conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_one_submitting
		 ON rounds (room_id) WHERE status = 'submitting'`,
	).Error; err != nil {
		return err
	}
	log.Println("database migration complete")
	return nil
}
