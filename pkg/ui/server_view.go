package ui

import (
	"context"
	"time"

	"asconsole/pkg/model"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SubsystemTreeID identifies the server configuration navigation tree.
const SubsystemTreeID = "subsystem-tree"

// ServerView is the left-hand side of the server configuration: the profile
// name above the subsystem navigation tree.
type ServerView struct {
	builder *nav.TreeBuilder
	tree    *NavTreeView
	timeout time.Duration
	post    func(func())

	object fyne.CanvasObject
}

func NewServerView(builder *nav.TreeBuilder, tree *NavTreeView, profile string, timeout time.Duration) *ServerView {
	v := &ServerView{builder: builder, tree: tree, timeout: timeout, post: fyne.Do}
	v.object = container.NewBorder(
		widget.NewLabelWithStyle("Profile: "+profile, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
		nil, nil, nil,
		tree.Widget(),
	)
	return v
}

func (v *ServerView) Widget() fyne.CanvasObject { return v.object }

// UpdateFrom builds the navigation tree in the background, messaging
// instances included, and shows it once complete.
func (v *ServerView) UpdateFrom(records []model.SubsystemRecord) {
	go func() {
		ctx := context.Background()
		if v.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, v.timeout)
			defer cancel()
		}
		t := v.builder.Build(ctx, SubsystemTreeID, nav.ServerConfigPlace, records)
		v.post(func() { v.tree.SetTree(t) })
	}()
}
