package store

import (
	"fmt"
	"time"

	"github.com/efidev/issuetracker/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the single-file SQLite store. The DSN enables the WAL
// journal so concurrent readers never block the writer, and bounds lock
// waits with a busy timeout so a contended writer fails instead of hanging.
func Open(path string, busyTimeout time.Duration) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d",
		path, busyTimeout.Milliseconds())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// A single writer connection keeps transactions serialized at the pool
	// level; SQLite allows only one writer at a time anyway.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return db, nil
}

// Recycle discards the pool's current connections so the next statement
// reopens the store file from disk. Required after a restore or reset
// replaced the file underneath a live process.
func Recycle(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetConnMaxLifetime(time.Nanosecond)
	err = sqlDB.Ping()
	sqlDB.SetConnMaxLifetime(0)
	return err
}
