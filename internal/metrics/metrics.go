// Package metrics exposes Prometheus instrumentation for scene transitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scenestack/scenestack/pkg/domain"
)

// Recorder counts and times scene transitions. It implements the runtime's
// transition observer.
type Recorder struct {
	transitions *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenestack",
			Name:      "transitions_total",
			Help:      "Completed scene transitions by operation and target.",
		}, []string{"op", "to"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenestack",
			Name:      "transition_failures_total",
			Help:      "Failed scene transitions by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(r.transitions, r.failures)
	return r
}

// ObserveTransition records one transition attempt.
func (r *Recorder) ObserveTransition(op domain.TransitionOp, from, to string, err error) {
	if err != nil {
		r.failures.WithLabelValues(string(op)).Inc()
		return
	}
	r.transitions.WithLabelValues(string(op), to).Inc()
}
