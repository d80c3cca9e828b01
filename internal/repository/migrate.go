package repository

import "gorm.io/gorm"

// Migrate creates the core tables and the partial unique index that enforces
// slot exclusivity for active appointments. The index is partial so a
// cancelled or refused appointment does not block re-booking its slot; both
// postgres and sqlite support the WHERE clause.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&workshopModel{},
		&carModel{},
		&appointmentModel{},
	); err != nil {
		return err
	}

	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_slot_exclusive
ON rdv_workshops (workshop_id, date, time)
WHERE status IN ('en_attente', 'accepted', 'en_cours')
`).Error
}
