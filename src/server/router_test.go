package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/src/model"
)

type stubSignals struct {
	signals []model.Signal
	pairs   []string
	cleared bool
}

func (s *stubSignals) List(ctx context.Context) ([]model.Signal, error) { return s.signals, nil }

func (s *stubSignals) Latest(ctx context.Context) (*model.Signal, error) {
	if len(s.signals) == 0 {
		return nil, nil
	}
	return &s.signals[0], nil
}

func (s *stubSignals) Generate(ctx context.Context, pair string) (*model.Signal, error) {
	s.pairs = append(s.pairs, pair)
	signal := model.Signal{ID: uint(len(s.signals) + 1), Pair: pair, Action: model.ActionBuy}
	s.signals = append([]model.Signal{signal}, s.signals...)
	return &signal, nil
}

func (s *stubSignals) Clear(ctx context.Context) error {
	s.cleared = true
	s.signals = nil
	return nil
}

type stubMarket struct{}

func (stubMarket) Series(ctx context.Context, pair string) []model.MarketPoint {
	return []model.MarketPoint{{Time: "14:00", Value: 100}}
}

func newTestRouter(signals *stubSignals) http.Handler {
	return NewRouter(Deps{
		Signals: signals,
		Market:  stubMarket{},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Now:     func() time.Time { return time.Date(2025, 3, 4, 13, 0, 0, 0, time.UTC) },
	})
}

func TestRouterRoutes(t *testing.T) {
	signals := &stubSignals{}
	router := newTestRouter(signals)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = do(http.MethodGet, "/api/signals/latest", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))

	rr = do(http.MethodPost, "/api/signals", `{"pair":"EUR/USD"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"EUR/USD"}, signals.pairs)

	rr = do(http.MethodGet, "/api/signals", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rr = do(http.MethodGet, "/api/market/EUR%2FUSD", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"time":"14:00","value":100}]`, rr.Body.String())

	rr = do(http.MethodGet, "/api/sessions", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"clock":"13:00:00 UTC"`)

	rr = do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(http.MethodDelete, "/api/signals", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, signals.cleared)

	rr = do(http.MethodPut, "/api/signals", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(&stubSignals{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/signals", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterWithoutStreamHasNoStreamRoute(t *testing.T) {
	router := newTestRouter(&stubSignals{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/signals/stream", nil))
	assert.NotEqual(t, http.StatusOK, rr.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", newTestRouter(&stubSignals{}), time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSetupLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		SetupLogger(&Config{LogLevel: "info", LogFormat: "json"})
		SetupLogger(&Config{LogLevel: "bogus", LogFormat: "text"})
	})
}
