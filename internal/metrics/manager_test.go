package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterOutcomes.WithLabelValues("created").Inc()
	m.CounterRequests.WithLabelValues("GET", "200").Inc()
	m.CounterNotificationFailures.Inc()
	m.CounterExports.Inc()
	m.HistRequestDuration.Observe(0.2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterOutcomes.WithLabelValues("created")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}
