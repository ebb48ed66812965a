package model

import "time"

// MarketPoint is one sample of the chart series served to the dashboard.
type MarketPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// MarketSession is one forex trading session and whether it is open.
type MarketSession struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SessionStatus backs the session indicator in the dashboard header.
type SessionStatus struct {
	NowUTC        time.Time       `json:"nowUtc"`
	Clock         string          `json:"clock"` // "HH:MM:SS UTC"
	Sessions      []MarketSession `json:"sessions"`
	NoTradeWindow bool            `json:"noTradeWindow"`
	NYPhase       string          `json:"nyPhase"` // e.g. "us_session", "no_trade"
}
