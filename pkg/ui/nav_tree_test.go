package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"asconsole/pkg/model"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type recordingPlaces struct {
	mu      sync.Mutex
	current string
	tokens  []string
}

func (r *recordingPlaces) RevealPlace(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	r.current = token
	return nil
}

func (r *recordingPlaces) CurrentToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *recordingPlaces) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tokens...)
}

type staticServers []string

func (s staticServers) LoadServerNames(context.Context) ([]string, error) { return s, nil }

func buildTree(t *testing.T, records ...string) *nav.Tree {
	t.Helper()
	var recs []model.SubsystemRecord
	for _, r := range records {
		recs = append(recs, model.SubsystemRecord{Title: r, Key: r})
	}
	b := nav.NewTreeBuilder(model.DefaultMetaData(), staticServers{"default"}, nil)
	return b.Build(context.Background(), SubsystemTreeID, nav.ServerConfigPlace, recs)
}

func newTestNavTree(t *testing.T) (*NavTreeView, *recordingPlaces, *nav.EventBus, *testingclock.FakeClock) {
	t.Helper()
	test.NewTempApp(t)
	places := &recordingPlaces{}
	bus := nav.NewEventBus()
	clk := testingclock.NewFakeClock(time.Now())
	v := NewNavTreeView(places, bus, clk, nil)
	v.post = func(fn func()) { fn() }
	t.Cleanup(v.Close)
	return v, places, bus, clk
}

func TestNavTreeDelayedHighlight(t *testing.T) {
	v, _, bus, clk := newTestNavTree(t)

	var mu sync.Mutex
	var events []nav.LHSHighlightEvent
	nav.Subscribe(bus, func(e nav.LHSHighlightEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})
	received := func() []nav.LHSHighlightEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]nav.LHSHighlightEvent(nil), events...)
	}

	v.SetTree(buildTree(t, "datasources", "logging"))
	require.True(t, clk.HasWaiters())

	clk.Step(autoRevealDelay - time.Millisecond)
	assert.Empty(t, received())

	clk.Step(time.Millisecond)
	require.Eventually(t, func() bool { return len(received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, nav.LHSHighlightEvent{
		TreeID:   SubsystemTreeID,
		ItemText: "Datasources",
		Category: nav.HighlightCategoryProfiles,
	}, received()[0])
	assert.Equal(t, "server/datasources", v.Highlighted())
}

func TestNavTreeWithoutDatasourcesSchedulesNothing(t *testing.T) {
	v, _, _, clk := newTestNavTree(t)

	v.SetTree(buildTree(t, "logging"))
	assert.False(t, clk.HasWaiters())
}

func TestNavTreeReplacingTreeCancelsPendingHighlight(t *testing.T) {
	v, _, _, clk := newTestNavTree(t)

	v.SetTree(buildTree(t, "datasources"))
	v.SetTree(buildTree(t, "logging"))
	clk.Step(time.Second)

	assert.Empty(t, v.Highlighted())
}

func TestNavTreeSelectionRevealsPlace(t *testing.T) {
	v, places, _, _ := newTestNavTree(t)
	v.SetTree(buildTree(t, "datasources", "messaging"))

	v.tree.Select("server/messaging;name=default")
	assert.Equal(t, []string{"server/messaging;name=default"}, places.Tokens())

	v.tree.Select("group:Messaging")
	assert.Len(t, places.Tokens(), 1, "groups are not places")
}

func TestNavTreeSyncSelectionAllowsReselect(t *testing.T) {
	v, places, _, _ := newTestNavTree(t)
	v.SetTree(buildTree(t, "datasources", "messaging"))

	v.tree.Select("server/messaging;name=default")
	require.Len(t, places.Tokens(), 1)

	// the header reveals the server root, which no link stands for
	require.NoError(t, places.RevealPlace(nav.NameTokenServerConfig))
	v.SyncSelection(places.CurrentToken())
	assert.Empty(t, v.tree.SelectedIDs())

	v.tree.Select("server/messaging;name=default")
	assert.Equal(t, []string{
		"server/messaging;name=default",
		nav.NameTokenServerConfig,
		"server/messaging;name=default",
	}, places.Tokens())
}

func TestNavTreeSyncSelectionFollowsPlace(t *testing.T) {
	v, places, _, _ := newTestNavTree(t)
	v.SetTree(buildTree(t, "datasources", "messaging"))

	places.current = "server/datasources"
	v.SyncSelection("server/datasources")
	assert.Equal(t, []string{"server/datasources"}, v.tree.SelectedIDs())
	assert.Empty(t, places.Tokens(), "syncing the selection does not navigate")
}

func TestNavTreeHelpPopup(t *testing.T) {
	v, places, _, _ := newTestNavTree(t)
	w := test.NewWindow(v.Widget())
	t.Cleanup(w.Close)
	w.Resize(fyne.NewSize(400, 400))

	tree := buildTree(t)
	require.NotNil(t, tree.Node(nav.HelpNodeID))
	v.SetTree(tree)

	v.tree.Select(nav.HelpNodeID)

	popup := v.HelpPopUp()
	require.NotNil(t, popup)
	assert.True(t, popup.Visible())
	label, ok := popup.Content.(*widget.Label)
	require.True(t, ok)
	assert.Equal(t, nav.HelpText, label.Text)
	assert.Empty(t, places.Tokens())
}

func TestNavTreeHelpPopupReopens(t *testing.T) {
	v, _, _, _ := newTestNavTree(t)
	w := test.NewWindow(v.Widget())
	t.Cleanup(w.Close)
	w.Resize(fyne.NewSize(400, 400))
	v.SetTree(buildTree(t))

	v.tree.Select(nav.HelpNodeID)
	first := v.HelpPopUp()
	require.NotNil(t, first)
	assert.Empty(t, v.tree.SelectedIDs())
	first.Hide()

	v.tree.Select(nav.HelpNodeID)
	second := v.HelpPopUp()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.True(t, second.Visible())
}
