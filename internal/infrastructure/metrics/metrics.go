// Package metrics exposes wizard and HTTP activity as Prometheus metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// Metrics holds the collectors of one registry
type Metrics struct {
	StepTransitions    *prometheus.CounterVec
	Rejections         *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StepTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wizard_step_transitions_total",
				Help: "Total number of wizard step transitions",
			},
			[]string{"from", "to", "trigger"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wizard_validation_rejected_total",
				Help: "Total number of step changes refused by validation",
			},
			[]string{"step"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wizard_submissions_total",
				Help: "Total number of settled report submissions",
			},
			[]string{"outcome"},
		),
		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wizard_submission_duration_seconds",
				Help:    "Duration of report submissions in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RegisterSessionGauge exposes the number of live wizard sessions
func RegisterSessionGauge(reg prometheus.Registerer, count func() int) {
	promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "wizard_sessions_active",
			Help: "Number of live wizard sessions",
		},
		func() float64 { return float64(count()) },
	)
}

// Transition implements wizard.Recorder
func (m *Metrics) Transition(from, to domainwiz.Step, trigger domainwiz.Trigger) {
	m.StepTransitions.WithLabelValues(from.String(), to.String(), trigger.String()).Inc()
}

// ValidationRejected implements wizard.Recorder
func (m *Metrics) ValidationRejected(step domainwiz.Step) {
	m.Rejections.WithLabelValues(step.String()).Inc()
}

// SubmissionSettled implements wizard.Recorder
func (m *Metrics) SubmissionSettled(outcome string, elapsed time.Duration) {
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
