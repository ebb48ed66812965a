package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signaldesk/src/model"
)

// ReadOnlyDB is an optional replica used for listing signals.
// The database user for this connection should have SELECT-only permissions.
var ReadOnlyDB *gorm.DB

// Reader returns ReadOnlyDB when configured, otherwise MainDB.
func Reader() *gorm.DB {
	if ReadOnlyDB != nil {
		return ReadOnlyDB
	}
	return MainDB
}

// InitReadOnlyDB initializes the read-only database connection.
// It does not run any migrations and should only be used for reading data.
func InitReadOnlyDB() error {
	config := GetConfig()
	if config.DatabaseURLReadOnly == "" {
		logrus.Info("[ReadOnlyDB] not configured, reads use MainDB")
		return nil
	}

	db, err := Open(config, config.DatabaseURLReadOnly)
	if err != nil {
		return err
	}

	if err := Check(db); err != nil {
		return err
	}

	ReadOnlyDB = db
	return nil
}

// Check pings db and confirms the signals table is reachable.
func Check(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var count int64
	if err := db.Model(&model.Signal{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to access signals: %w", err)
	}

	logrus.WithFields(map[string]interface{}{"count": count}).Info("[database] signals reachable")
	return nil
}
