package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/arziki-reports/internal/application/wizard"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

var _ wizard.Recorder = (*Metrics)(nil)

func TestMetrics_Recorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition(domainwiz.StepBusiness, domainwiz.StepProduct, domainwiz.TriggerNext)
	m.Transition(domainwiz.StepBusiness, domainwiz.StepProduct, domainwiz.TriggerNext)
	m.ValidationRejected(domainwiz.StepStock)
	m.SubmissionSettled(wizard.OutcomeSuccess, 1500*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StepTransitions.WithLabelValues("business", "product", "NEXT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("stock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Submissions.WithLabelValues("failure")))
}

func TestRegisterSessionGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	live := 3
	RegisterSessionGauge(reg, func() int { return live })

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "wizard_sessions_active", families[0].GetName())
	assert.Equal(t, 3.0, families[0].GetMetric()[0].GetGauge().GetValue())
}
