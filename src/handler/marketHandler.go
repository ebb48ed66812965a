package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"signaldesk/src/model"
	"signaldesk/src/risk"
)

type seriesProvider interface {
	Series(ctx context.Context, pair string) []model.MarketPoint
}

// MarketDataHandler serves the synthetic chart series for {pair}.
func MarketDataHandler(svc seriesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pair := chi.URLParam(r, "pair")
		if unescaped, err := url.PathUnescape(pair); err == nil {
			pair = unescaped
		}
		writeJSON(w, http.StatusOK, svc.Series(r.Context(), pair))
	}
}

// SessionHandler reports which forex sessions are open and whether the
// New York no-trade window is in effect.
func SessionHandler(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, risk.Status(now()))
	}
}
