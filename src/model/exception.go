package model

import (
	"time"

	"gorm.io/datatypes"
)

// Exception represents a system-level error that must be persisted
// for auditing, debugging, and monitoring purposes.
type Exception struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Where the error happened
	Service string `gorm:"size:100;index" json:"service"` // e.g. "signal_generator"
	Module  string `gorm:"size:100;index" json:"module"`  // e.g. "Anthropic"
	Method  string `gorm:"size:100" json:"method"`        // e.g. "fetch"

	// Error information
	Message string `gorm:"type:text" json:"message"` // err.Error()

	// Severity level
	Level string `gorm:"size:20;index" json:"level"` // debug | info | warn | error | fatal

	// Extra context stored as JSON (optional)
	Context datatypes.JSON `json:"context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
