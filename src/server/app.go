package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"signaldesk/src/connectors"
	"signaldesk/src/database"
	"signaldesk/src/events"
	"signaldesk/src/market"
	"signaldesk/src/metrics"
	"signaldesk/src/repository"
	"signaldesk/src/strategy"
)

// App holds the wired components shared by the server and the CLI commands.
type App struct {
	Generator *strategy.Generator
	Market    *market.Service
	Hub       *events.Hub
	Recorder  *metrics.Recorder

	closers []io.Closer
}

// NewApp connects the databases and builds every component from the environment.
// Redis and Kafka are optional; a Redis outage at startup only disables the cache.
func NewApp(ctx context.Context, log *logrus.Entry) (*App, error) {
	if err := database.InitMainDB(); err != nil {
		return nil, fmt.Errorf("init main db: %w", err)
	}
	if err := database.InitReadOnlyDB(); err != nil {
		return nil, fmt.Errorf("init read-only db: %w", err)
	}

	app := &App{
		Recorder: metrics.New(prometheus.DefaultRegisterer),
		Hub:      events.NewHub(log),
	}

	publishers := events.Multi{app.Hub}
	eventsConfig := events.GetConfig()
	if len(eventsConfig.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(eventsConfig.KafkaBrokers, eventsConfig.KafkaTopic)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		publishers = append(publishers, kafkaPublisher)
		app.closers = append(app.closers, kafkaPublisher)
		log.WithField("topic", eventsConfig.KafkaTopic).Info("kafka publisher enabled")
	}

	connectorsConfig := connectors.GetConfig()
	app.Generator = strategy.NewGenerator(
		log,
		connectors.NewProviders(connectorsConfig),
		repository.NewSignalRepository(),
		strategy.WithPublisher(publishers),
		strategy.WithRecorder(app.Recorder),
		strategy.WithExceptionSink(repository.NewExceptionRepository()),
		strategy.WithProviderTimeout(connectorsConfig.ProviderTimeout),
	)

	marketConfig := market.GetConfig()
	marketOpts := []market.Option{
		market.WithPoints(marketConfig.Points),
		market.WithRecorder(app.Recorder),
	}
	if marketConfig.RedisAddr != "" {
		cache, err := market.NewRedisCache(ctx, marketConfig.RedisAddr, marketConfig.RedisPassword, marketConfig.RedisDB, marketConfig.RedisPrefix)
		if err != nil {
			log.WithError(err).Warn("market cache disabled")
		} else {
			marketOpts = append(marketOpts, market.WithCache(cache, marketConfig.CacheTTL))
			app.closers = append(app.closers, cache)
		}
	}
	app.Market = market.NewService(log, marketOpts...)

	return app, nil
}

// Router builds the HTTP surface over the app.
func (a *App) Router(config *Config) http.Handler {
	return NewRouter(Deps{
		Signals:    a.Generator,
		Market:     a.Market,
		Stream:     a.Hub,
		Metrics:    promhttp.Handler(),
		Now:        time.Now,
		CORSOrigin: config.CORSAllowOrigin,
	})
}

// Close disconnects websocket clients and releases optional backends.
func (a *App) Close() {
	a.Hub.Close()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
}
