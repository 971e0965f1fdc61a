package mgmt

import (
	"context"
	"testing"
	"time"

	"asconsole/pkg/dispatch"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadOutcomes(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)
	stats := newTxStats()
	w := NewWorkload(10, stats, m)

	for _, p := range []float64{0.1, 0.5, 0.92, 0.95, 0.99} {
		w.pick = func() float64 { return p }
		w.step()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(stats.Committed))
	assert.Equal(t, 2.0, testutil.ToFloat64(stats.Aborted))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.ApplicationRollbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.ResourceRollbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.TimedOut))
	assert.Equal(t, 0.0, testutil.ToFloat64(stats.Inflight))
}

func TestWorkloadHonoursStatisticsSwitch(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)
	resp := m.Execute(dispatch.Operation{
		Operation: dispatch.OpWriteAttribute,
		Address:   transactionsAddress,
		Name:      "enable-statistics",
		Value:     false,
	})
	require.Equal(t, dispatch.OutcomeSuccess, resp.Outcome)

	stats := newTxStats()
	w := NewWorkload(10, stats, m)
	w.step()
	assert.Equal(t, 0.0, testutil.ToFloat64(stats.Committed))
}

func TestWorkloadRunStopsWithContext(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)
	stats := newTxStats()
	w := NewWorkload(1000, stats, m)
	w.pick = func() float64 { return 0 }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(stats.Committed) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workload did not stop")
	}
}

func TestWorkloadZeroRateIdles(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)
	stats := newTxStats()
	w := NewWorkload(0, stats, m)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	w.Run(ctx)
	assert.Equal(t, 0.0, testutil.ToFloat64(stats.Committed))
}
