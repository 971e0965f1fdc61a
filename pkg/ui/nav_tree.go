package ui

import (
	"sync"
	"time"

	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	autoRevealDelay = 500 * time.Millisecond

	helpOffsetX = 50
	helpOffsetY = 20
	helpWidth   = 240
	helpHeight  = 80
)

// PlaceRevealer reveals a place by token.
type PlaceRevealer interface {
	RevealPlace(token string) error
	CurrentToken() string
}

// NavTreeView renders a navigation tree model. Selecting a link reveals its
// place, selecting the help node opens the help popup next to the tree.
type NavTreeView struct {
	mu    sync.Mutex
	model *nav.Tree
	timer clock.Timer

	tree   *widget.Tree
	help   *widget.PopUp
	places PlaceRevealer
	bus    *nav.EventBus
	clock  clock.WithDelayedExecution
	post   func(func())
	log    *logrus.Entry

	highlighted string
	unsubscribe func()
}

func NewNavTreeView(places PlaceRevealer, bus *nav.EventBus, clk clock.WithDelayedExecution, log *logrus.Entry) *NavTreeView {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	v := &NavTreeView{places: places, bus: bus, clock: clk, post: fyne.Do, log: log}

	v.tree = widget.NewTree(
		func(id widget.TreeNodeID) []widget.TreeNodeID {
			m := v.current()
			if m == nil {
				return nil
			}
			return m.ChildIDs(id)
		},
		func(id widget.TreeNodeID) bool {
			if id == "" {
				return true
			}
			m := v.current()
			if m == nil {
				return false
			}
			n := m.Node(id)
			return n != nil && n.IsGroup()
		},
		func(branch bool) fyne.CanvasObject {
			return widget.NewLabel("Subsystem")
		},
		func(id widget.TreeNodeID, branch bool, o fyne.CanvasObject) {
			m := v.current()
			if m == nil {
				return
			}
			if n := m.Node(id); n != nil {
				o.(*widget.Label).SetText(n.Label)
			}
		},
	)
	v.tree.OnSelected = v.onSelected

	if bus != nil {
		v.unsubscribe = nav.Subscribe(bus, v.onHighlight)
	}
	return v
}

func (v *NavTreeView) Widget() fyne.CanvasObject { return v.tree }

func (v *NavTreeView) current() *nav.Tree {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model
}

// Model returns the tree currently shown.
func (v *NavTreeView) Model() *nav.Tree { return v.current() }

// SetTree replaces the shown tree, opens every group and schedules the
// delayed reveal of the auto-reveal link.
func (v *NavTreeView) SetTree(t *nav.Tree) {
	v.mu.Lock()
	v.model = t
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.highlighted = ""
	v.mu.Unlock()

	v.tree.UnselectAll()
	v.tree.Refresh()
	for _, root := range t.Roots {
		if root.IsGroup() {
			v.tree.OpenBranch(root.ID)
		}
	}

	target := t.AutoRevealNode()
	if target == nil {
		return
	}
	timer := v.clock.AfterFunc(autoRevealDelay, func() {
		v.post(func() { v.autoReveal(t, target) })
	})
	v.mu.Lock()
	v.timer = timer
	v.mu.Unlock()
}

func (v *NavTreeView) autoReveal(t *nav.Tree, target *nav.Node) {
	if v.current() != t {
		return
	}
	if parent := t.Parent(target.ID); parent != nil {
		v.tree.OpenBranch(parent.ID)
	}
	event := nav.LHSHighlightEvent{
		TreeID:   t.ID,
		ItemText: target.Label,
		Category: nav.HighlightCategoryProfiles,
	}
	if v.bus == nil {
		v.onHighlight(event)
		return
	}
	nav.Publish(v.bus, event)
}

func (v *NavTreeView) onHighlight(e nav.LHSHighlightEvent) {
	t := v.current()
	if t == nil || e.TreeID != t.ID {
		return
	}
	for _, id := range t.ChildIDs("") {
		for _, child := range t.ChildIDs(id) {
			if n := t.Node(child); n != nil && n.Label == e.ItemText {
				v.mu.Lock()
				v.highlighted = n.ID
				v.mu.Unlock()
				v.tree.Select(n.ID)
				return
			}
		}
	}
}

// Highlighted returns the id of the last highlighted node.
func (v *NavTreeView) Highlighted() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.highlighted
}

func (v *NavTreeView) onSelected(id widget.TreeNodeID) {
	t := v.current()
	if t == nil {
		return
	}
	n := t.Node(id)
	switch {
	case n == nil:
		return
	case n.Help:
		v.ShowHelp()
		v.tree.Unselect(id)
	case n.Token != "":
		if n.Token == v.places.CurrentToken() {
			return
		}
		if err := v.places.RevealPlace(n.Token); err != nil {
			v.log.WithError(err).WithField("token", n.Token).Warn("cannot reveal place")
		}
	}
}

// SyncSelection selects the link whose token matches the revealed place and
// clears the selection when no link does, so a later click on the same link
// navigates again.
func (v *NavTreeView) SyncSelection(token string) {
	t := v.current()
	if t == nil {
		return
	}
	if n := t.NodeByToken(token); n != nil {
		v.tree.Select(n.ID)
		return
	}
	v.tree.UnselectAll()
}

// ShowHelp opens the popup explaining why no subsystem is listed.
func (v *NavTreeView) ShowHelp() {
	c := fyne.CurrentApp().Driver().CanvasForObject(v.tree)
	if c == nil {
		return
	}
	label := widget.NewLabel(nav.HelpText)
	label.Wrapping = fyne.TextWrapWord

	if v.help != nil {
		v.help.Hide()
	}
	v.help = widget.NewPopUp(label, c)
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(v.tree)
	v.help.ShowAtPosition(pos.Add(fyne.NewPos(helpOffsetX, helpOffsetY)))
	v.help.Resize(fyne.NewSize(helpWidth, helpHeight))
}

// HelpPopUp returns the popup last shown, if any.
func (v *NavTreeView) HelpPopUp() *widget.PopUp { return v.help }

// Close stops a pending reveal and detaches from the event bus.
func (v *NavTreeView) Close() {
	v.mu.Lock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.mu.Unlock()
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}
