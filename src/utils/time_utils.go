package utils

import (
	"time"

	logger "github.com/sirupsen/logrus"
)

const (
	// SignalWindowStep is the minute grid signal windows start on.
	SignalWindowStep = 5
	// SignalWindowLength is how long a signal stays valid.
	SignalWindowLength = 5 * time.Minute
	// WindowTimezoneLabel suffixes formatted window bounds.
	WindowTimezoneLabel = "UTC"
)

// ResetTime resets the time component based on the granularity specified.
// Pass "minute" to reset seconds to zero.
// Pass "hour" to reset minutes and seconds to zero.
func ResetTime(t time.Time, granularity string) time.Time {
	switch granularity {
	case "minute":
		return t.Truncate(time.Minute) // Resets seconds to zero
	case "hour":
		return t.Truncate(time.Hour) // Resets minutes and seconds to zero
	default:
		logger.WithField("granularity", granularity).Warn("Invalid granularity. Please use 'minute' or 'hour'.")
		return t
	}
}

// NextSignalWindow returns the validity window for a signal created at now.
// The start is ceil((minute+1)/5)*5 on the current hour, so it is always strictly
// after now; 60 rolls into the next hour.
func NextSignalWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	minute := now.Minute()
	rounded := (minute + SignalWindowStep) / SignalWindowStep * SignalWindowStep

	start = ResetTime(now, "hour").Add(time.Duration(rounded) * time.Minute)
	return start, start.Add(SignalWindowLength)
}

// FormatWindowBound renders a bound as 24-hour "HH:MM UTC".
func FormatWindowBound(t time.Time) string {
	return t.UTC().Format("15:04") + " " + WindowTimezoneLabel
}
