package ui

import (
	"testing"

	"asconsole/pkg/nav"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationHeader(t *testing.T) {
	test.NewTempApp(t)

	var selected []string
	h := NewApplicationHeader("Console", func(token string) { selected = append(selected, token) })

	h.Highlight(nav.NameTokenServerConfig)
	h.SetContent(ServerConfigTitle)

	assert.Equal(t, nav.NameTokenServerConfig, h.Highlighted())
	assert.Equal(t, ServerConfigTitle, h.Content())
	assert.Equal(t, ServerConfigTitle, h.contentL.Text)

	btn := h.buttons[nav.NameTokenServerConfig]
	require.NotNil(t, btn)
	assert.Equal(t, widget.HighImportance, btn.Importance)

	test.Tap(btn)
	assert.Equal(t, []string{nav.NameTokenServerConfig}, selected)

	h.Highlight("runtime")
	assert.Equal(t, widget.LowImportance, btn.Importance)
}

func TestRenderIcon(t *testing.T) {
	img := RenderIcon()
	assert.Equal(t, iconSize, img.Bounds().Dx())
	assert.Equal(t, iconSize, img.Bounds().Dy())

	res := AppIcon()
	require.NotNil(t, res)
	assert.Equal(t, "asconsole.png", res.Name())
	assert.NotEmpty(t, res.Content())
}
