package ui

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"asconsole/pkg/config"
	"asconsole/pkg/mgmt"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newTestConsole(t *testing.T) (*ConsoleApp, *testingclock.FakeClock) {
	t.Helper()
	srv, err := mgmt.NewServer(config.EndpointConfig{}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	host, port, ok := strings.Cut(strings.TrimPrefix(ts.URL, "http://"), ":")
	require.True(t, ok)
	cfg := config.DefaultConsoleConfig()
	cfg.EndpointHost = host
	cfg.Port, err = strconv.Atoi(port)
	require.NoError(t, err)
	cfg.ChartsEnabled = false

	a := test.NewTempApp(t)
	clk := testingclock.NewFakeClock(time.Now())
	c := NewConsoleAppWith(a, cfg, clk)
	t.Cleanup(c.Close)
	return c, clk
}

func TestConsoleStartRevealsDatasources(t *testing.T) {
	c, clk := newTestConsole(t)

	c.Start()
	assert.Equal(t, "server/datasources", c.Places().CurrentToken())
	assert.Equal(t, nav.NameTokenServerConfig, c.Header().Highlighted())
	assert.Equal(t, ServerConfigTitle, c.Header().Content())

	require.Eventually(t, func() bool { return c.NavTree().Model() != nil }, waitFor, 10*time.Millisecond)
	tree := c.NavTree().Model()
	require.NotNil(t, tree.Node("server/datasources"))
	require.NotNil(t, tree.Node("server/messaging;name=default"))
	require.NotNil(t, tree.Node("server/messaging;name=backup"))
	assert.Nil(t, tree.Node(nav.HelpNodeID))

	require.Eventually(t, clk.HasWaiters, waitFor, 10*time.Millisecond)
	clk.Step(autoRevealDelay)
	require.Eventually(t, func() bool { return c.NavTree().Highlighted() == "server/datasources" }, waitFor, 10*time.Millisecond)
	assert.Equal(t, "server/datasources", c.Places().CurrentToken(), "highlighting the current place does not navigate")

	ds := c.Subsystem(nav.NameTokenDataSources)
	require.Eventually(t, func() bool {
		return ds.Form() != nil && !ds.Loading() && len(ds.Children()) == 2
	}, waitFor, 10*time.Millisecond)
}

func TestConsoleNavigationDeactivatesPreviousSubsystem(t *testing.T) {
	c, _ := newTestConsole(t)
	c.Start()

	require.NoError(t, c.Places().RevealPlace("server/transactions"))
	assert.True(t, c.txPanel.Running())

	require.NoError(t, c.Places().RevealPlace("server/logging"))
	assert.False(t, c.txPanel.Running())
	assert.Equal(t, "server/logging", c.Places().CurrentToken())
	assert.Same(t, c.Subsystem("logging").Widget(), c.Content.Objects[0])
}

func TestConsoleServerRootShowsPlaceholder(t *testing.T) {
	c, _ := newTestConsole(t)
	c.Start()

	require.NoError(t, c.Places().RevealPlace("server/transactions"))
	require.NoError(t, c.Places().RevealPlace(nav.NameTokenServerConfig))

	assert.Equal(t, nav.NameTokenServerConfig, c.Places().CurrentToken())
	assert.False(t, c.txPanel.Running())
	require.Len(t, c.Content.Objects, 1)
	assert.Same(t, c.placeholder, c.Content.Objects[0])
}

func TestConsoleHeaderThenSameTreeLink(t *testing.T) {
	c, clk := newTestConsole(t)
	c.Start()
	// the delayed highlight is scheduled once the tree is in place
	require.Eventually(t, clk.HasWaiters, waitFor, 10*time.Millisecond)

	link := "server/messaging;name=default"
	c.NavTree().tree.Select(link)
	require.Equal(t, link, c.Places().CurrentToken())
	assert.Equal(t, []string{link}, c.NavTree().tree.SelectedIDs())

	test.Tap(c.Header().buttons[nav.NameTokenServerConfig])
	require.Equal(t, nav.NameTokenServerConfig, c.Places().CurrentToken())
	assert.Empty(t, c.NavTree().tree.SelectedIDs())

	c.NavTree().tree.Select(link)
	assert.Equal(t, link, c.Places().CurrentToken())
	assert.Same(t, c.Subsystem(nav.NameTokenMessaging).Widget(), c.Content.Objects[0])
}
