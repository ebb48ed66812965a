package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"signaldesk/src/model"
)

// Recorder publishes generation metrics to Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	signalsGenerated *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	generation       prometheus.Histogram
	marketCache      *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_provider_requests_total",
				Help: "Provider queries by outcome",
			},
			[]string{"provider", "outcome"},
		),
		signalsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_signals_generated_total",
				Help: "Signals stored, by action and voting branch",
			},
			[]string{"action", "branch"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		generation: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signaldesk_generation_duration_seconds",
				Help:    "End-to-end signal generation time",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		marketCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signaldesk_market_cache_total",
				Help: "Market series cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordProviderResult counts one provider query.
func (r *Recorder) RecordProviderResult(provider model.ProviderName, outcome string) {
	r.providerRequests.WithLabelValues(string(provider), outcome).Inc()
}

// RecordSignal counts one stored signal.
func (r *Recorder) RecordSignal(action, branch string) {
	r.signalsGenerated.WithLabelValues(action, branch).Inc()
}

func (r *Recorder) RecordGenerationLatency(seconds float64) {
	r.generation.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheResult counts a market cache lookup by outcome (hit, miss or error).
func (r *Recorder) RecordCacheResult(result string) {
	r.marketCache.WithLabelValues(result).Inc()
}
