package ui

import (
	"sync"

	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// headerTab is a top-level place reachable from the header.
type headerTab struct {
	token string
	label string
}

var headerTabs = []headerTab{
	{token: nav.NameTokenServerConfig, label: "Profile"},
}

// ApplicationHeader shows the product title, one button per top-level place
// and the title of the content currently shown.
type ApplicationHeader struct {
	mu          sync.Mutex
	highlighted string
	content     string

	buttons  map[string]*widget.Button
	contentL *widget.Label
	object   fyne.CanvasObject
}

// NewApplicationHeader builds the header. onSelect runs when a tab is tapped.
func NewApplicationHeader(title string, onSelect func(token string)) *ApplicationHeader {
	h := &ApplicationHeader{
		buttons:  make(map[string]*widget.Button),
		contentL: widget.NewLabel(""),
	}

	tabs := container.NewHBox()
	for _, tab := range headerTabs {
		token := tab.token
		btn := widget.NewButton(tab.label, func() {
			if onSelect != nil {
				onSelect(token)
			}
		})
		btn.Importance = widget.LowImportance
		h.buttons[token] = btn
		tabs.Add(btn)
	}

	h.object = container.NewBorder(nil, widget.NewSeparator(),
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		h.contentL,
		tabs,
	)
	return h
}

func (h *ApplicationHeader) Widget() fyne.CanvasObject { return h.object }

// Highlight marks the tab of a top-level place as active.
func (h *ApplicationHeader) Highlight(token string) {
	h.mu.Lock()
	h.highlighted = token
	h.mu.Unlock()

	for t, btn := range h.buttons {
		if t == token {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.LowImportance
		}
		btn.Refresh()
	}
}

// SetContent sets the title of the section shown below the header.
func (h *ApplicationHeader) SetContent(title string) {
	h.mu.Lock()
	h.content = title
	h.mu.Unlock()
	h.contentL.SetText(title)
}

func (h *ApplicationHeader) Highlighted() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.highlighted
}

func (h *ApplicationHeader) Content() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}
