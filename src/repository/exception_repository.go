package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signaldesk/src/database"
	"signaldesk/src/model"
)

const defaultExceptionLevel = "warn"

// ExceptionRepository stores the audit trail of provider failures.
type ExceptionRepository struct {
	db *gorm.DB
}

func NewExceptionRepository() *ExceptionRepository {
	return &ExceptionRepository{db: database.MainDB}
}

func NewExceptionRepositoryWithDB(db *gorm.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

// Create records one failed provider query. Module holds the provider and
// Method the stage (fetch or parse) it failed at.
func (r *ExceptionRepository) Create(ctx context.Context, exc *model.Exception) error {
	if exc.Level == "" {
		exc.Level = defaultExceptionLevel
	}

	log := logger.WithFields(map[string]interface{}{
		"repo":     "ExceptionRepository",
		"op":       "Create",
		"service":  exc.Service,
		"provider": exc.Module,
		"stage":    exc.Method,
	})

	if err := r.db.WithContext(ctx).Create(exc).Error; err != nil {
		log.WithError(err).Error("Failed to store provider failure")
		return err
	}
	log.WithField("id", exc.ID).Debug("Provider failure stored")
	return nil
}
