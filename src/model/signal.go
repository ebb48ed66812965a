package model

import (
	"time"

	"gorm.io/datatypes"
)

// Canonical actions stored on a Signal after a majority vote.
const (
	ActionBuy  = "BUY/CALL"
	ActionSell = "SELL/PUT"
)

const SignalStatusActive = "active"

// Signal is one generated trading call. Rows are inserted once and never updated;
// the only removal path is clearing the whole table.
type Signal struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Pair       string `gorm:"type:text;not null" json:"pair"`   // e.g. "AUD/JPY"
	Action     string `gorm:"type:text;not null" json:"action"` // "BUY/CALL" or "SELL/PUT" (raw provider action on fallback)
	Confidence int    `gorm:"not null" json:"confidence"`       // 0-100

	// Validity window, e.g. "15:05 UTC" -> "15:10 UTC"
	StartTime string `gorm:"type:text;not null" json:"startTime"`
	EndTime   string `gorm:"type:text;not null" json:"endTime"`

	Status   string `gorm:"type:text;not null;default:active" json:"status"`
	Analysis string `gorm:"type:text;not null" json:"analysis"`

	// Providers that agreed with Action, in fixed provider order
	Verifiers datatypes.JSONSlice[string] `gorm:"not null" json:"verifiers"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Signal) TableName() string {
	return "signals"
}

// VerifierNames converts provider names into the stored column type.
func VerifierNames(providers []ProviderName) datatypes.JSONSlice[string] {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, string(p))
	}
	return datatypes.NewJSONSlice(names)
}
