// Package metrics exports ledger and moderation counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives economy and moderation events from session stores.
type Recorder interface {
	// PointsChanged records a balance movement; delta may be negative.
	PointsChanged(reason string, delta int)
	ModerationVerdict(kind string, safe, fallback bool)
	Rejected(action, cause string)
}

// Prometheus is a Recorder backed by its own registry.
type Prometheus struct {
	registry   *prometheus.Registry
	credited   *prometheus.CounterVec
	debited    *prometheus.CounterVec
	verdicts   *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		credited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moments",
			Name:      "points_credited_total",
			Help:      "Points credited to viewers, by reason.",
		}, []string{"reason"}),
		debited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moments",
			Name:      "points_debited_total",
			Help:      "Points debited from viewers, by reason.",
		}, []string{"reason"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moments",
			Name:      "moderation_verdicts_total",
			Help:      "Moderation gate verdicts.",
		}, []string{"kind", "verdict", "source"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moments",
			Name:      "rejected_actions_total",
			Help:      "Viewer actions rejected by the store.",
		}, []string{"action", "cause"}),
	}
	p.registry.MustRegister(p.credited, p.debited, p.verdicts, p.rejections)
	return p
}

func (p *Prometheus) PointsChanged(reason string, delta int) {
	switch {
	case delta > 0:
		p.credited.WithLabelValues(reason).Add(float64(delta))
	case delta < 0:
		p.debited.WithLabelValues(reason).Add(float64(-delta))
	}
}

func (p *Prometheus) ModerationVerdict(kind string, safe, fallback bool) {
	verdict := "safe"
	if !safe {
		verdict = "unsafe"
	}
	source := "model"
	if fallback {
		source = "fallback"
	}
	p.verdicts.WithLabelValues(kind, verdict, source).Inc()
}

func (p *Prometheus) Rejected(action, cause string) {
	p.rejections.WithLabelValues(action, cause).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) PointsChanged(string, int)            {}
func (Nop) ModerationVerdict(string, bool, bool) {}
func (Nop) Rejected(string, string)              {}
