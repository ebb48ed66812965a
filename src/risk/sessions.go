package risk

import (
	"time"

	"signaldesk/src/model"
)

// ----- session names shown in the dashboard -----

const (
	SessionLondon  = "LONDON"
	SessionNewYork = "NEW YORK"
	SessionTokyo   = "TOKYO"
	SessionSydney  = "SYDNEY"
)

// Phase is the New York based trading phase used by the autopilot.
type Phase string

const (
	PhaseWeekendHoliday Phase = "weekend_holiday"
	PhaseDeadZone       Phase = "dead_zone"
	PhaseAsia           Phase = "asia_session"
	PhaseLondon         Phase = "london_session"
	PhaseUS             Phase = "us_session"
	PhaseDefault        Phase = "default"
	PhaseNoTrade        Phase = "no_trade"

	DaysPerWeek          = 7
	OffsetDaysForNewYear = 1
	NewYearDay           = 1
	ThirdMondayOffset    = 2
	FourthThursdayOffset = 3
)

type utcSession struct {
	name       string
	open, shut int // UTC hours, shut exclusive; open > shut wraps midnight
}

var utcSessions = []utcSession{
	{SessionLondon, 7, 16},
	{SessionNewYork, 12, 21},
	{SessionTokyo, 0, 9},
	{SessionSydney, 21, 6},
}

func (s utcSession) activeAt(hour int) bool {
	if s.open <= s.shut {
		return hour >= s.open && hour < s.shut
	}
	return hour >= s.open || hour < s.shut
}

// ActiveSessions reports each forex session by UTC hour, in display order.
func ActiveSessions(now time.Time) []model.MarketSession {
	hour := now.UTC().Hour()
	out := make([]model.MarketSession, 0, len(utcSessions))
	for _, s := range utcSessions {
		out = append(out, model.MarketSession{Name: s.name, Active: s.activeAt(hour)})
	}
	return out
}

// IsNoTradeWindow is true from Friday 09:00 until Sunday 03:00 New York time and
// on US market holidays.
func IsNoTradeWindow(now time.Time) bool {
	return isNoTradeWindowNY(getEasternTime(now))
}

// CurrentPhase returns the New York phase, or PhaseNoTrade inside the no-trade window.
func CurrentPhase(now time.Time) Phase {
	et := getEasternTime(now)
	if isNoTradeWindowNY(et) {
		return PhaseNoTrade
	}
	return detectPhase(et)
}

// Status builds the session indicator payload.
func Status(now time.Time) model.SessionStatus {
	now = now.UTC()
	phase := CurrentPhase(now)
	return model.SessionStatus{
		NowUTC:        now,
		Clock:         now.Format("15:04:05") + " UTC",
		Sessions:      ActiveSessions(now),
		NoTradeWindow: phase == PhaseNoTrade,
		NYPhase:       string(phase),
	}
}

func getEasternTime(t time.Time) time.Time {
	nyLocation, err := time.LoadLocation("America/New_York")
	if err != nil {
		return t.UTC()
	}
	return t.In(nyLocation)
}

// isNoTradeWindowNY blocks from Friday after the UK session until Sunday when
// the UK session begins. The UK session in NY hours is 3 <= h < 9.
func isNoTradeWindowNY(t time.Time) bool {
	// a Sunday holiday during the London session is still tradable
	if t.Weekday() == time.Sunday && isLondonSession(t) {
		return false
	}

	if isHoliday(t) {
		return true
	}

	h := t.Hour()
	switch t.Weekday() {
	case time.Friday:
		return h >= 9
	case time.Saturday:
		return true
	case time.Sunday:
		return h < 3
	default:
		return false
	}
}

func detectPhase(t time.Time) Phase {
	if t.Weekday() == time.Sunday && isLondonSession(t) {
		return PhaseLondon
	}

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday || isHoliday(t) {
		return PhaseWeekendHoliday
	}

	switch {
	case isDeadZone(t):
		return PhaseDeadZone
	case isAsiaSession(t):
		return PhaseAsia
	case isLondonSession(t):
		return PhaseLondon
	case isUSSession(t):
		return PhaseUS
	default:
		return PhaseDefault
	}
}

func isDeadZone(t time.Time) bool {
	return t.Hour() >= 17 && t.Hour() < 20
}

func isAsiaSession(t time.Time) bool {
	return t.Hour() >= 20 || t.Hour() < 3
}

func isLondonSession(t time.Time) bool {
	return t.Hour() >= 3 && t.Hour() < 9
}

func isUSSession(t time.Time) bool {
	return t.Hour() >= 9 && t.Hour() <= 17
}

func isHoliday(t time.Time) bool {
	year := t.Year()

	// New Year's Day, observed Monday when it falls on a Sunday
	newYearsDay := time.Date(year, time.January, NewYearDay, 0, 0, 0, 0, time.UTC)
	if newYearsDay.Weekday() == time.Sunday {
		newYearsDay = newYearsDay.AddDate(0, 0, OffsetDaysForNewYear)
	}

	mlkDay := calculateSpecificMonday(year, time.January, ThirdMondayOffset)
	presidentsDay := calculateSpecificMonday(year, time.February, ThirdMondayOffset)

	// last Monday of May
	memorialDay := time.Date(year, time.May, 31, 0, 0, 0, 0, time.UTC)
	for memorialDay.Weekday() != time.Monday {
		memorialDay = memorialDay.AddDate(0, 0, -1)
	}

	independenceDay := time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)
	if independenceDay.Weekday() == time.Sunday {
		independenceDay = independenceDay.AddDate(0, 0, OffsetDaysForNewYear)
	}

	laborDay := calculateSpecificMonday(year, time.September, 0)
	thanksgivingDay := calculateSpecificThursday(year, time.November, FourthThursdayOffset)

	christmasDay := time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)
	if christmasDay.Weekday() == time.Sunday {
		christmasDay = christmasDay.AddDate(0, 0, OffsetDaysForNewYear)
	}

	return isDateAmong(t, []time.Time{
		newYearsDay,
		mlkDay,
		presidentsDay,
		memorialDay,
		independenceDay,
		laborDay,
		thanksgivingDay,
		christmasDay,
	})
}

// calculateSpecificMonday returns the nth Monday of a month, n starting at 0.
func calculateSpecificMonday(year int, month time.Month, mondayOffset int) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(time.Monday-firstOfMonth.Weekday()+DaysPerWeek) % DaysPerWeek
	return firstOfMonth.AddDate(0, 0, offset+mondayOffset*DaysPerWeek)
}

// calculateSpecificThursday returns the nth Thursday of a month, n starting at 0.
func calculateSpecificThursday(year int, month time.Month, thursdayOffset int) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(time.Thursday-firstOfMonth.Weekday()+DaysPerWeek) % DaysPerWeek
	return firstOfMonth.AddDate(0, 0, offset+thursdayOffset*DaysPerWeek)
}

func isDateAmong(t time.Time, dates []time.Time) bool {
	for _, d := range dates {
		if t.Format("2006-01-02") == d.Format("2006-01-02") {
			return true
		}
	}
	return false
}
