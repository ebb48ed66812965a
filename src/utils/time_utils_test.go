package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetTime(t *testing.T) {
	at := time.Date(2025, time.March, 4, 10, 37, 42, 500, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 4, 10, 37, 0, 0, time.UTC), ResetTime(at, "minute"))
	assert.Equal(t, time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC), ResetTime(at, "hour"))
	assert.Equal(t, at, ResetTime(at, "day"))
}

func TestNextSignalWindow(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{name: "on the grid moves to next slot", now: time.Date(2025, 1, 2, 14, 0, 0, 0, time.UTC), wantStart: "14:05 UTC", wantEnd: "14:10 UTC"},
		{name: "one minute before grid", now: time.Date(2025, 1, 2, 14, 4, 59, 0, time.UTC), wantStart: "14:05 UTC", wantEnd: "14:10 UTC"},
		{name: "just after grid", now: time.Date(2025, 1, 2, 14, 5, 1, 0, time.UTC), wantStart: "14:10 UTC", wantEnd: "14:15 UTC"},
		{name: "mid slot", now: time.Date(2025, 1, 2, 9, 22, 30, 0, time.UTC), wantStart: "09:25 UTC", wantEnd: "09:30 UTC"},
		{name: "rolls into next hour", now: time.Date(2025, 1, 2, 14, 57, 0, 0, time.UTC), wantStart: "15:00 UTC", wantEnd: "15:05 UTC"},
		{name: "rolls past midnight", now: time.Date(2025, 1, 2, 23, 59, 59, 0, time.UTC), wantStart: "00:00 UTC", wantEnd: "00:05 UTC"},
		{name: "end crosses hour", now: time.Date(2025, 1, 2, 14, 52, 0, 0, time.UTC), wantStart: "14:55 UTC", wantEnd: "15:00 UTC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := NextSignalWindow(tc.now)
			assert.Equal(t, tc.wantStart, FormatWindowBound(start))
			assert.Equal(t, tc.wantEnd, FormatWindowBound(end))
		})
	}
}

func TestNextSignalWindow_Invariants(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 24*60; offset += 7 {
		now := base.Add(time.Duration(offset)*time.Minute + 13*time.Second)
		start, end := NextSignalWindow(now)

		assert.Equal(t, SignalWindowLength, end.Sub(start))
		assert.Zero(t, start.Minute()%SignalWindowStep)
		assert.Zero(t, start.Second())
		assert.Zero(t, start.Nanosecond())
		assert.True(t, start.After(now), "start %v must be after %v", start, now)
		assert.LessOrEqual(t, start.Sub(now), SignalWindowLength)
	}
}

func TestNextSignalWindow_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	now := time.Date(2025, 1, 2, 18, 2, 0, 0, loc)

	start, _ := NextSignalWindow(now)
	assert.Equal(t, "15:05 UTC", FormatWindowBound(start))
}
