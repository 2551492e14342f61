package model

import (
	"gorm.io/gorm"
)

var Models = []interface{}{
	&User{}, &Issue{}, &AuditEntry{}, &Document{},
	&Company{}, &Department{}, &Application{},
}

// AutoMigrate creates missing tables and retrofits missing columns.
// It is additive only and safe to run on every process start.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
