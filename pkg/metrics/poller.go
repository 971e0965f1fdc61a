package metrics

import (
	"context"
	"fmt"
	"time"

	"asconsole/pkg/async"
	"asconsole/pkg/dispatch"

	"fyne.io/fyne/v2"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Source provides scraped metric families.
type Source interface {
	FetchMetrics(ctx context.Context) (map[string]*dto.MetricFamily, error)
}

// TXSamples are the transaction samples derived from one scrape.
type TXSamples struct {
	Rollback  Metric
	Execution Metric
}

// TXSamplesFrom maps transaction counters onto the rollback and execution
// columns.
func TXSamplesFrom(families map[string]*dto.MetricFamily, at time.Time) (TXSamples, error) {
	get := func(name string) (float64, error) {
		mf, ok := families[name]
		if !ok || len(mf.GetMetric()) == 0 {
			return 0, fmt.Errorf("metric %s not exposed", name)
		}
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetUntyped() != nil:
				total += m.GetUntyped().GetValue()
			}
		}
		return total, nil
	}

	names := []string{
		dispatch.MetricTxApplicationRollbacks,
		dispatch.MetricTxResourceRollbacks,
		dispatch.MetricTxCommitted,
		dispatch.MetricTxAborted,
		dispatch.MetricTxTimedOut,
	}
	values := make([]float64, len(names))
	for i, name := range names {
		v, err := get(name)
		if err != nil {
			return TXSamples{}, err
		}
		values[i] = v
	}

	return TXSamples{
		Rollback:  Metric{Values: values[0:2:2], Time: at},
		Execution: Metric{Values: values[2:5:5], Time: at},
	}, nil
}

// Poller scrapes the endpoint at a fixed interval and feeds the transaction
// samplers on the UI thread.
type Poller struct {
	source    Source
	interval  time.Duration
	timeout   time.Duration
	rollback  Sampler
	execution Sampler
	log       *logrus.Entry
	post      func(func())
	now       func() time.Time
}

func NewPoller(source Source, interval, timeout time.Duration, rollback, execution Sampler, log *logrus.Entry) *Poller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		source:    source,
		interval:  interval,
		timeout:   timeout,
		rollback:  rollback,
		execution: execution,
		log:       log,
		post:      fyne.Do,
		now:       time.Now,
	}
}

// Run polls until ctx is done. The first poll happens immediately.
func (p *Poller) Run(ctx context.Context) {
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := p.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.WithError(err).Warn("metrics poll failed")
		}
	}
}

// Poll performs one scrape and pushes the samples. Samples posted while ctx is
// still live are dropped if ctx is done by the time they reach the UI thread.
func (p *Poller) Poll(ctx context.Context) error {
	live := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	fetched := async.Await(ctx, async.Go(ctx, p.source.FetchMetrics))
	if !fetched.OK() {
		return fetched.Err
	}
	samples, err := TXSamplesFrom(fetched.Value, p.now())
	if err != nil {
		return err
	}

	p.post(func() {
		if live.Err() != nil {
			return
		}
		p.rollback.AddSample(samples.Rollback)
		p.execution.AddSample(samples.Execution)
	})
	return nil
}
