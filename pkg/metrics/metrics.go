// Package metrics provides instrumentation for classification and binning
// using Prometheus metrics.
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	bounds, err := classify.Jenks(series, 5)
//	metrics.ObserveClassification("Jenks", timer.Stop(), err)
//
//	metrics.BinnedRows.WithLabelValues(metrics.OutcomeAssigned).Add(float64(n))
//
// All collectors are registered with the default registry on package load.
// The CLI prints them with Dump after a command when metrics.dump is set.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Outcome label values of BinnedRows
const (
	OutcomeAssigned = "assigned"
	OutcomeDropped  = "dropped"
)

var (
	// Classifications counts breakpoint computations.
	// Labels: method, status (success/failure)
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datacontainer_classifications_total",
			Help: "Total number of breakpoint classifications",
		},
		[]string{"method", "status"},
	)

	// ClassificationDuration tracks how long breakpoint computations take.
	// The dynamic programming methods dominate the upper buckets.
	// Labels: method
	ClassificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "datacontainer_classification_duration_seconds",
			Help: "Breakpoint classification latency in seconds",
			Buckets: []float64{
				1e-6, // 1μs - trivial series
				1e-5,
				1e-4,
				1e-3, // 1ms - Jenks on a few hundred values
				1e-2,
				1e-1,
				1, // 1s - Jenks on tens of thousands of values
			},
		},
		[]string{"method"},
	)

	// BinnedRows counts rows routed by the binning engine.
	// Labels: outcome (assigned/dropped)
	BinnedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datacontainer_binned_rows_total",
			Help: "Total number of rows assigned to or dropped from bins",
		},
		[]string{"outcome"},
	)
)

// ObserveClassification records the outcome and latency of one classification
func ObserveClassification(method string, d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	Classifications.WithLabelValues(method, status).Inc()
	ClassificationDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveBinning records how many rows a binning pass assigned and dropped
func ObserveBinning(assigned, dropped int) {
	if assigned > 0 {
		BinnedRows.WithLabelValues(OutcomeAssigned).Add(float64(assigned))
	}
	if dropped > 0 {
		BinnedRows.WithLabelValues(OutcomeDropped).Add(float64(dropped))
	}
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed duration since creation. It may be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Dump writes the datacontainer_ metric families gathered from g, one
// sample per line, sorted by name. Histograms are summarised by count and sum.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "datacontainer_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				_, err = fmt.Fprintf(w, "%s %g\n", name, m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				_, err = fmt.Fprintf(w, "%s count=%d sum=%g\n", name, h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
