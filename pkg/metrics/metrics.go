// Package metrics holds the Prometheus collectors for planning runs and the
// HTTP transport.
//
// All methods are safe for concurrent use and safe on a nil *Metrics, which
// records nothing.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prm"

// Pipeline stages, used as the "stage" label.
const (
	StageSample  = "sample"
	StageIndex   = "index"
	StageRoadmap = "roadmap"
	StageSearch  = "search"
)

// Plan outcomes, used as the "outcome" label.
const (
	OutcomeFound   = "found"
	OutcomeNoPath  = "no_path"
	OutcomeAborted = "aborted"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics groups every collector the planner exports.
type Metrics struct {
	// StageDuration measures each pipeline stage.
	// Labels: stage (sample, index, roadmap, search)
	StageDuration *prometheus.HistogramVec

	// PlansTotal counts finished plans.
	// Labels: outcome (found, no_path, aborted, invalid, error)
	PlansTotal *prometheus.CounterVec

	RoadmapNodes  prometheus.Histogram
	RoadmapEdges  prometheus.Histogram
	NodesExpanded prometheus.Histogram

	// RequestsTotal counts HTTP requests.
	// Labels: route, code
	RequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each planning stage in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		PlansTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Total number of planning runs by outcome",
		}, []string{"outcome"}),
		RoadmapNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roadmap_nodes",
			Help:      "Number of nodes per roadmap, start and goal included",
			Buckets:   prometheus.ExponentialBuckets(2, 4, 8),
		}),
		RoadmapEdges: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roadmap_edges",
			Help:      "Number of undirected edges per roadmap",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		NodesExpanded: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_nodes_expanded",
			Help:      "Nodes expanded by A* per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the collectors registered with the global Prometheus
// registry, creating them on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveRoadmap records the size of a built roadmap.
func (m *Metrics) ObserveRoadmap(nodes, edges int) {
	if m == nil {
		return
	}
	m.RoadmapNodes.Observe(float64(nodes))
	m.RoadmapEdges.Observe(float64(edges))
}

// ObserveSearch records the number of A* expansions.
func (m *Metrics) ObserveSearch(expanded int) {
	if m == nil {
		return
	}
	m.NodesExpanded.Observe(float64(expanded))
}

// RecordOutcome counts one finished plan.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.PlansTotal.WithLabelValues(outcome).Inc()
}

// RecordRequest counts one HTTP request.
func (m *Metrics) RecordRequest(route string, code int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
