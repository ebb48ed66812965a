package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signaldesk/src/database"
	"signaldesk/src/model"
)

const newestFirst = "created_at DESC, id DESC"

// SignalRepository stores generated signals. Writes and the latest-signal read
// go to the main database; the full listing may be served by the read replica.
type SignalRepository struct {
	db     *gorm.DB
	reader *gorm.DB
}

func NewSignalRepository() *SignalRepository {
	return &SignalRepository{
		db:     database.MainDB,
		reader: database.Reader(),
	}
}

// NewSignalRepositoryWithDB uses db for reads and writes.
func NewSignalRepositoryWithDB(db *gorm.DB) *SignalRepository {
	return &SignalRepository{db: db, reader: db}
}

// FindAll returns every signal, newest first.
func (r *SignalRepository) FindAll(ctx context.Context) ([]model.Signal, error) {
	log := logger.WithFields(map[string]interface{}{
		"repo": "SignalRepository",
		"op":   "FindAll",
	})

	var signals []model.Signal
	if err := r.reader.WithContext(ctx).Order(newestFirst).Find(&signals).Error; err != nil {
		log.WithError(err).Error("Failed to list signals")
		return nil, err
	}

	log.WithField("count", len(signals)).Debug("Signals listed")
	return signals, nil
}

// FindLatest returns the newest signal, or nil when the table is empty.
func (r *SignalRepository) FindLatest(ctx context.Context) (*model.Signal, error) {
	var signal model.Signal
	err := r.db.WithContext(ctx).Order(newestFirst).Take(&signal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SignalRepository",
			"op":   "FindLatest",
		}).WithError(err).Error("Failed to fetch latest signal")
		return nil, err
	}
	return &signal, nil
}

// Create inserts one signal and fills in its id and createdAt.
func (r *SignalRepository) Create(ctx context.Context, signal *model.Signal) error {
	if signal.Status == "" {
		signal.Status = model.SignalStatusActive
	}
	if err := r.db.WithContext(ctx).Create(signal).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SignalRepository",
			"op":   "Create",
			"pair": signal.Pair,
		}).WithError(err).Error("Failed to insert signal")
		return err
	}
	return nil
}

// DeleteAll removes every signal. Clearing an empty table succeeds.
func (r *SignalRepository) DeleteAll(ctx context.Context) error {
	log := logger.WithFields(map[string]interface{}{
		"repo": "SignalRepository",
		"op":   "DeleteAll",
	})

	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Signal{})
	if res.Error != nil {
		log.WithError(res.Error).Error("Failed to clear signals")
		return res.Error
	}

	log.WithField("deleted", res.RowsAffected).Info("Signals cleared")
	return nil
}
