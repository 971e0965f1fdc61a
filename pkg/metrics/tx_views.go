package metrics

import "fyne.io/fyne/v2"

// Column sets of the transaction views.
var (
	RollbackColumns  = []string{"Applications", "Resources"}
	ExecutionColumns = []string{"Commits", "Aborted", "Timed Out"}
)

const (
	RollbackTitle  = "Rollback Origin"
	ExecutionTitle = "Success Ratio"
)

// TXView is a transaction metric view delegating to the sampler chosen at
// construction.
type TXView struct {
	sampler View
}

// NewTXRollbackView shows where rollbacks originate, latest sample only.
func NewTXRollbackView(opts Options) *TXView {
	opts.Timeline = false
	opts.Width, opts.Height = 320, 200
	return &TXView{sampler: NewSampler(RollbackTitle, RollbackColumns, opts)}
}

// NewTXExecutionView plots commits, aborts and timeouts over time.
func NewTXExecutionView(opts Options) *TXView {
	opts.Timeline = true
	opts.Width, opts.Height = 320, 200
	return &TXView{sampler: NewSampler(ExecutionTitle, ExecutionColumns, opts)}
}

func (v *TXView) Widget() fyne.CanvasObject { return v.sampler.Widget() }
func (v *TXView) AddSample(m Metric)        { v.sampler.AddSample(m) }
func (v *TXView) ClearSamples()             { v.sampler.ClearSamples() }
func (v *TXView) NumSamples() int64         { return v.sampler.NumSamples() }
func (v *TXView) Recycle()                  { v.sampler.Recycle() }

// Sampler exposes the delegate, mainly to tell which variant was chosen.
func (v *TXView) Sampler() View { return v.sampler }
