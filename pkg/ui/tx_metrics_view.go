package ui

import (
	"context"
	"sync"
	"time"

	"asconsole/pkg/metrics"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// TXMetricsPanel shows the transaction rollback origin and success ratio
// views and runs the poller feeding them while the panel is active.
type TXMetricsPanel struct {
	Rollback  *metrics.TXView
	Execution *metrics.TXView

	source   metrics.Source
	interval time.Duration
	timeout  time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	poller *metrics.Poller

	object fyne.CanvasObject
}

func NewTXMetricsPanel(source metrics.Source, opts metrics.Options, interval, timeout time.Duration, log *logrus.Entry) *TXMetricsPanel {
	p := &TXMetricsPanel{
		Rollback:  metrics.NewTXRollbackView(opts),
		Execution: metrics.NewTXExecutionView(opts),
		source:    source,
		interval:  interval,
		timeout:   timeout,
		log:       log,
	}
	p.poller = metrics.NewPoller(source, interval, timeout, p.Rollback, p.Execution, log)
	p.object = container.NewVBox(
		widget.NewLabelWithStyle("Runtime Metrics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, p.Rollback.Widget(), p.Execution.Widget()),
	)
	return p
}

func (p *TXMetricsPanel) Widget() fyne.CanvasObject { return p.object }

// Start begins polling; a running poller is left alone.
func (p *TXMetricsPanel) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go func() {
		defer close(done)
		p.poller.Run(ctx)
	}()
}

// Stop ends polling and drops the sampled history.
func (p *TXMetricsPanel) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.Rollback.Recycle()
	p.Execution.Recycle()
}

func (p *TXMetricsPanel) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
