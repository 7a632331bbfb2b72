package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Migrate creates the schema and, on Postgres, the exclusion constraint that
// makes overlapping bookings impossible at the storage level. The advisory
// overlap check in the booking service is not transactionally tied to the
// insert; this constraint is what closes the check-then-act race between
// concurrent creates. SQLite deployments (local dev, tests) run without it.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&roomModel{},
		&membershipModel{},
		&bookingModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}

	err := db.Exec(`
ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
EXCLUDE USING gist (room_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
`).Error
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}
	return nil
}
