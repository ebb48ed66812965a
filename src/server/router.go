package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"signaldesk/src/handler"
	"signaldesk/src/model"
)

// SignalService is everything the signal routes need.
type SignalService interface {
	List(ctx context.Context) ([]model.Signal, error)
	Latest(ctx context.Context) (*model.Signal, error)
	Generate(ctx context.Context, pair string) (*model.Signal, error)
	Clear(ctx context.Context) error
}

type MarketService interface {
	Series(ctx context.Context, pair string) []model.MarketPoint
}

type Deps struct {
	Signals    SignalService
	Market     MarketService
	Stream     http.Handler // websocket push, optional
	Metrics    http.Handler // optional
	Now        func() time.Time
	CORSOrigin string
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// === Global Middleware ===
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors(deps.CORSOrigin))

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("healthcheck write failed")
		}
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/signals", func(r chi.Router) {
			r.Get("/", handler.ListSignalsHandler(deps.Signals))
			r.Post("/", handler.CreateSignalHandler(deps.Signals))
			r.Delete("/", handler.ClearSignalsHandler(deps.Signals))
			r.Get("/latest", handler.LatestSignalHandler(deps.Signals))
			if deps.Stream != nil {
				r.Method(http.MethodGet, "/stream", deps.Stream)
			}
		})
		r.Get("/market/{pair}", handler.MarketDataHandler(deps.Market))
		r.Get("/sessions", handler.SessionHandler(deps.Now))
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger.WithFields(map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request handled")
	})
}

func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
