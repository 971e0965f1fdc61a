package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"asconsole/pkg/async"
	"asconsole/pkg/dispatch"
	"asconsole/pkg/forms"
	"asconsole/pkg/logging"
	"asconsole/pkg/model"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// ResourceClient is the part of the management client a subsystem presenter
// needs.
type ResourceClient interface {
	ReadResource(ctx context.Context, addr dispatch.Address) (map[string]any, error)
	ReadChildrenNames(ctx context.Context, addr dispatch.Address, childType string) ([]string, error)
	WriteAttribute(ctx context.Context, addr dispatch.Address, name string, value any) error
}

// SubsystemPresenter edits the configuration of one subsystem. Subsystems with
// a child type list their children in a selector and edit the selected one.
// Without a form definition the form is inferred from the first resource read.
type SubsystemPresenter struct {
	item    model.SubsystemGroupItem
	def     model.FormDefinition
	defined bool
	client  ResourceClient
	panel   *TXMetricsPanel
	show    func(fyne.CanvasObject)
	timeout time.Duration

	post   func(func())
	report func(string, error)
	log    *logrus.Entry

	mu      sync.Mutex
	req     nav.PlaceRequest
	base    dispatch.Address
	target  dispatch.Address
	form    *forms.Form
	gen     int
	loading bool

	titleL   *widget.Label
	childSel *widget.Select
	formBox  *fyne.Container
	saveBtn  *widget.Button
	resetBtn *widget.Button
	status   *widget.Label
	object   fyne.CanvasObject
}

// NewSubsystemPresenter builds the presenter for a group item. panel may be
// nil; it is only shown for definitions that ask for runtime metrics.
func NewSubsystemPresenter(item model.SubsystemGroupItem, meta *model.MetaData, client ResourceClient, panel *TXMetricsPanel, show func(fyne.CanvasObject), timeout time.Duration, log *logrus.Entry) *SubsystemPresenter {
	if log == nil {
		log = logging.Logger("ui")
	}
	def, defined := meta.FormDefinition(item.Presenter)
	if !defined {
		def = model.FormDefinition{Key: item.Presenter, Title: item.Name, Address: "subsystem=" + item.Key}
	}
	if !def.Metrics {
		panel = nil
	}

	p := &SubsystemPresenter{
		item:    item,
		def:     def,
		defined: defined && len(def.Groups) > 0,
		client:  client,
		panel:   panel,
		show:    show,
		timeout: timeout,
		post:    fyne.Do,
		report:  logging.ReportError,
		log:     log.WithField("subsystem", item.Presenter),
	}
	p.buildView()
	return p
}

func (p *SubsystemPresenter) buildView() {
	p.titleL = widget.NewLabelWithStyle(p.item.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	p.status = widget.NewLabel("")
	p.formBox = container.NewVBox()
	p.childSel = widget.NewSelect(nil, func(name string) {
		if name != "" {
			p.loadEntity(name)
		}
	})
	p.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), p.Save)
	p.resetBtn = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), p.Reload)

	top := []fyne.CanvasObject{p.titleL}
	if p.def.ChildType != "" {
		top = append(top, container.NewBorder(nil, nil, widget.NewLabel(childLabel(p.def.ChildType)+":"), nil, p.childSel))
	} else {
		p.childSel.Hide()
	}

	body := []fyne.CanvasObject{p.formBox, container.NewHBox(p.saveBtn, p.resetBtn), p.status}
	if p.panel != nil {
		body = append(body, widget.NewSeparator(), p.panel.Widget())
	}
	p.object = container.NewBorder(container.NewVBox(top...), nil, nil, nil,
		container.NewVScroll(container.NewVBox(body...)))
}

func childLabel(childType string) string {
	words := strings.Split(childType, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (p *SubsystemPresenter) NameToken() string { return p.item.Presenter }

func (p *SubsystemPresenter) PrepareFromRequest(req nav.PlaceRequest) {
	p.mu.Lock()
	p.req = req
	p.mu.Unlock()
}

func (p *SubsystemPresenter) OnReset() {
	if p.show != nil {
		p.show(p.object)
	}

	p.mu.Lock()
	req := p.req
	p.mu.Unlock()

	title := p.item.Name
	if name := req.Param("name"); name != "" {
		title = "Provider: " + name
	}
	p.titleL.SetText(title)

	raw := p.def.ResolveAddress(req.Params)
	if strings.Contains(raw, "{") {
		p.setStatus(fmt.Sprintf("Incomplete address %q", raw))
		return
	}
	base, err := dispatch.ParseAddress(raw)
	if err != nil {
		p.setStatus(err.Error())
		return
	}
	p.mu.Lock()
	p.base = base
	p.mu.Unlock()

	if p.panel != nil {
		p.panel.Start()
	}
	p.Reload()
}

// Deactivate runs when another place replaces this one.
func (p *SubsystemPresenter) Deactivate() {
	if p.panel != nil {
		p.panel.Stop()
	}
}

// Reload reads the children (when the definition has a child type) and the
// edited entity again, discarding unsaved changes.
func (p *SubsystemPresenter) Reload() {
	p.setStatus("")
	if p.def.ChildType == "" {
		p.loadEntity("")
		return
	}

	p.mu.Lock()
	base := p.base
	p.mu.Unlock()

	async.Then(context.Background(),
		func(ctx context.Context) ([]string, error) {
			ctx, cancel := p.withTimeout(ctx)
			defer cancel()
			return p.client.ReadChildrenNames(ctx, base, p.def.ChildType)
		},
		func(names []string) {
			p.post(func() { p.showChildren(names) })
		},
		func(err error) {
			p.fail("Failed to list "+p.def.ChildType, err)
		},
	)
}

func (p *SubsystemPresenter) showChildren(names []string) {
	p.childSel.Options = names
	p.childSel.Refresh()
	if len(names) == 0 {
		p.childSel.ClearSelected()
		if p.form != nil {
			p.form.Clear()
			p.form.SetEnabled(false)
		}
		p.setStatus("No " + p.def.ChildType + " configured")
		return
	}
	selected := p.childSel.Selected
	if !slices.Contains(names, selected) {
		selected = names[0]
	}
	if p.childSel.Selected == selected {
		p.loadEntity(selected)
		return
	}
	p.childSel.SetSelected(selected)
}

func (p *SubsystemPresenter) loadEntity(child string) {
	p.mu.Lock()
	target := p.base
	if child != "" {
		target = target.Append(p.def.ChildType, child)
	}
	p.target = target
	p.gen++
	gen := p.gen
	p.loading = true
	p.mu.Unlock()

	log := p.log.WithField("address", target.String())
	log.Debug("reading resource")

	async.Then(context.Background(),
		func(ctx context.Context) (map[string]any, error) {
			ctx, cancel := p.withTimeout(ctx)
			defer cancel()
			return p.client.ReadResource(ctx, target)
		},
		func(values map[string]any) {
			p.post(func() {
				if !p.current(gen) {
					return
				}
				if err := p.ensureForm(target, values); err != nil {
					p.fail("Failed to build form", err)
					return
				}
				p.form.Edit(values)
				p.form.SetEnabled(true)
				p.done(gen)
			})
		},
		func(err error) {
			p.done(gen)
			p.fail("Failed to read "+target.String(), err)
		},
	)
}

func (p *SubsystemPresenter) current(gen int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen == p.gen
}

func (p *SubsystemPresenter) done(gen int) {
	p.mu.Lock()
	if gen == p.gen {
		p.loading = false
	}
	p.mu.Unlock()
}

// Loading reports whether a resource read is outstanding.
func (p *SubsystemPresenter) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *SubsystemPresenter) ensureForm(target dispatch.Address, values map[string]any) error {
	if p.form != nil {
		return nil
	}
	def := p.def
	if !p.defined {
		def = forms.InferDefinition(p.item.Presenter, p.item.Name, target.String(), values)
	}
	form, err := forms.NewForm(def)
	if err != nil {
		return err
	}
	p.form = form
	p.formBox.Objects = []fyne.CanvasObject{form.Widget()}
	p.formBox.Refresh()
	return nil
}

// Save validates the form and writes every changed attribute, then reads the
// entity again.
func (p *SubsystemPresenter) Save() {
	if p.form == nil {
		return
	}
	if err := p.form.Validate(); err != nil {
		p.setStatus(err.Error())
		return
	}
	changed := p.form.ChangedValues()
	if len(changed) == 0 {
		p.setStatus("No changes")
		return
	}

	p.mu.Lock()
	target := p.target
	p.mu.Unlock()

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	slices.Sort(names)

	p.form.SetEnabled(false)
	async.Then(context.Background(),
		func(ctx context.Context) (int, error) {
			ctx, cancel := p.withTimeout(ctx)
			defer cancel()
			for i, name := range names {
				if err := p.client.WriteAttribute(ctx, target, name, changed[name]); err != nil {
					return i, fmt.Errorf("write %s: %w", name, err)
				}
			}
			return len(names), nil
		},
		func(written int) {
			p.log.WithField("attributes", written).Info("configuration saved")
			p.post(func() {
				p.setStatus(fmt.Sprintf("Saved %d attribute(s)", written))
				p.loadEntity(target.Value(p.def.ChildType))
			})
		},
		func(err error) {
			p.fail("Failed to save "+target.String(), err)
			p.post(func() { p.form.SetEnabled(true) })
		},
	)
}

func (p *SubsystemPresenter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}

func (p *SubsystemPresenter) fail(message string, err error) {
	p.report(message, err)
	p.post(func() { p.setStatus(message + ": " + err.Error()) })
}

func (p *SubsystemPresenter) setStatus(text string) {
	p.status.SetText(text)
}

// Status returns the text of the status line.
func (p *SubsystemPresenter) Status() string { return p.status.Text }

// Form returns the form, once the first entity has been read.
func (p *SubsystemPresenter) Form() *forms.Form { return p.form }

// Children returns the names offered by the child selector.
func (p *SubsystemPresenter) Children() []string { return p.childSel.Options }

func (p *SubsystemPresenter) Widget() fyne.CanvasObject { return p.object }
