package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordOutcome(OutcomeFound)
	m.RecordOutcome(OutcomeFound)
	m.RecordOutcome(OutcomeNoPath)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues(OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues(OutcomeNoPath)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues(OutcomeAborted)))
}

func TestObserveHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStage(StageRoadmap, 3*time.Millisecond)
	m.ObserveStage(StageSearch, time.Millisecond)
	m.ObserveRoadmap(102, 480)
	m.ObserveSearch(37)
	m.RecordRequest("/plan", 200)

	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/plan", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["prm_roadmap_edges"])
	assert.True(t, names["prm_search_nodes_expanded"])
	assert.True(t, names["prm_http_requests_total"])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage(StageSample, time.Second)
		m.ObserveRoadmap(1, 1)
		m.ObserveSearch(1)
		m.RecordOutcome(OutcomeError)
		m.RecordRequest("/health", 200)
	})
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
