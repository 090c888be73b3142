package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the app uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Client{}, &Company{}, &Contract{}, &SystemLogRecord{})
}
