package mgmt

import (
	"context"
	"math/rand/v2"

	"asconsole/pkg/dispatch"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

var transactionsAddress = dispatch.MustParseAddress("subsystem=transactions")

// TxStats are the transaction manager counters exported on /metrics.
type TxStats struct {
	Committed            prometheus.Counter
	Aborted              prometheus.Counter
	TimedOut             prometheus.Counter
	ApplicationRollbacks prometheus.Counter
	ResourceRollbacks    prometheus.Counter
	Inflight             prometheus.Gauge
}

func newTxStats() *TxStats {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}
	return &TxStats{
		Committed:            counter(dispatch.MetricTxCommitted, "Committed transactions."),
		Aborted:              counter(dispatch.MetricTxAborted, "Aborted transactions."),
		TimedOut:             counter(dispatch.MetricTxTimedOut, "Transactions rolled back by timeout."),
		ApplicationRollbacks: counter(dispatch.MetricTxApplicationRollbacks, "Rollbacks requested by applications."),
		ResourceRollbacks:    counter(dispatch.MetricTxResourceRollbacks, "Rollbacks caused by resource failures."),
		Inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: dispatch.MetricTxInflight,
			Help: "Transactions currently in flight.",
		}),
	}
}

func (s *TxStats) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		s.Committed, s.Aborted, s.TimedOut,
		s.ApplicationRollbacks, s.ResourceRollbacks, s.Inflight,
	}
}

type txOutcome int

const (
	txCommitted txOutcome = iota
	txApplicationRollback
	txResourceRollback
	txTimedOut
)

// Record accounts one finished transaction.
func (s *TxStats) Record(outcome txOutcome) {
	switch outcome {
	case txCommitted:
		s.Committed.Inc()
	case txApplicationRollback:
		s.Aborted.Inc()
		s.ApplicationRollbacks.Inc()
	case txResourceRollback:
		s.Aborted.Inc()
		s.ResourceRollbacks.Inc()
	case txTimedOut:
		s.TimedOut.Inc()
	}
}

// Workload simulates transaction traffic at a fixed rate. Nothing is counted
// while the transactions subsystem has statistics disabled.
type Workload struct {
	tps   float64
	stats *TxStats
	model *Model
	pick  func() float64
}

func NewWorkload(tps float64, stats *TxStats, model *Model) *Workload {
	return &Workload{tps: tps, stats: stats, model: model, pick: rand.Float64}
}

// Run blocks until ctx is done.
func (w *Workload) Run(ctx context.Context) {
	if w.tps <= 0 {
		<-ctx.Done()
		return
	}

	limiter := rate.NewLimiter(rate.Limit(w.tps), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		w.step()
	}
}

func (w *Workload) step() {
	if !w.statisticsEnabled() {
		return
	}
	w.stats.Inflight.Inc()
	defer w.stats.Inflight.Dec()
	w.stats.Record(w.outcome())
}

func (w *Workload) outcome() txOutcome {
	p := w.pick()
	switch {
	case p < 0.90:
		return txCommitted
	case p < 0.94:
		return txApplicationRollback
	case p < 0.97:
		return txResourceRollback
	default:
		return txTimedOut
	}
}

func (w *Workload) statisticsEnabled() bool {
	value, ok := w.model.Attribute(transactionsAddress, "enable-statistics")
	if !ok {
		return true
	}
	enabled, isBool := value.(bool)
	return !isBool || enabled
}
