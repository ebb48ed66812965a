package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/src/model"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.RecordProviderResult(model.ProviderOpenAI, "ok")
	rec.RecordProviderResult(model.ProviderOpenAI, "ok")
	rec.RecordProviderResult(model.ProviderGemini, "parse_error")
	rec.RecordSignal("BUY/CALL", "buy_majority")
	rec.RecordError("persistence")
	rec.RecordGenerationLatency(1.5)
	rec.RecordCacheResult("hit")
	rec.RecordCacheResult("miss")
	rec.RecordCacheResult("miss")
	rec.RecordCacheResult("error")

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.providerRequests.WithLabelValues("OpenAI", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.providerRequests.WithLabelValues("Gemini", "parse_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.signalsGenerated.WithLabelValues("BUY/CALL", "buy_majority")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.errorsTotal.WithLabelValues("persistence")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.marketCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.marketCache.WithLabelValues("error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["signaldesk_generation_duration_seconds"])
	assert.True(t, names["signaldesk_provider_requests_total"])
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
