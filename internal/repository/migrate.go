package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every table this package
// owns. Evidence assets migrate separately; that module carries its own
// gorm entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&slotModel{},
		&attendanceModel{},
		&disputeModel{},
		&ledgerModel{},
		&availabilityModel{},
	)
}
