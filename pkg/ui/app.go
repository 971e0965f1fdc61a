package ui

import (
	"sync"

	"asconsole/pkg/config"
	"asconsole/pkg/dispatch"
	"asconsole/pkg/logging"
	"asconsole/pkg/metrics"
	"asconsole/pkg/model"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ConsoleApp is the console shell: header on top, subsystem navigation on
// the left and the revealed subsystem on the right.
type ConsoleApp struct {
	FyneApp fyne.App
	Window  fyne.Window
	Content *fyne.Container

	placeholder fyne.CanvasObject

	cfg      config.ConsoleConfig
	settings consoleSettings
	client   *dispatch.Client
	meta     *model.MetaData

	bus        *nav.EventBus
	places     *nav.PlaceManager
	header     *ApplicationHeader
	navTree    *NavTreeView
	serverView *ServerView
	server     *ServerMgmtPresenter
	txPanel    *TXMetricsPanel
	subsystems map[string]*SubsystemPresenter

	mu     sync.Mutex
	active *SubsystemPresenter

	settingsWindow fyne.Window
	log            *logrus.Entry
}

func NewConsoleApp(cfg config.ConsoleConfig) *ConsoleApp {
	a := app.NewWithID("io.github.asconsole")
	if icon := AppIcon(); icon != nil {
		a.SetIcon(icon)
	}
	return NewConsoleAppWith(a, cfg, clock.RealClock{})
}

// NewConsoleAppWith wires the console into an existing fyne app.
func NewConsoleAppWith(a fyne.App, cfg config.ConsoleConfig, clk clock.WithDelayedExecution) *ConsoleApp {
	meta := model.DefaultMetaData()
	log := logging.Logger("ui")
	settings := loadSettings(a.Preferences(), cfg)
	client := dispatch.NewClientForURL(settings.EndpointURL, cfg.RequestTimeout())

	w := a.NewWindow("Application Server Console")
	w.Resize(fyne.NewSize(1024, 768))

	placeholder := widget.NewLabel("Select a subsystem to edit")
	c := &ConsoleApp{
		FyneApp:     a,
		Window:      w,
		Content:     container.NewStack(placeholder),
		placeholder: placeholder,
		cfg:         cfg,
		settings:    settings,
		client:      client,
		meta:        meta,
		bus:         nav.NewEventBus(),
		places:      nav.NewPlaceManager(logging.Logger("nav")),
		subsystems:  make(map[string]*SubsystemPresenter),
		log:         log.WithField("endpoint", settings.EndpointURL),
	}

	store := dispatch.NewSubsystemStore(client, logging.Logger("dispatch"))
	builder := nav.NewTreeBuilder(meta, store, logging.Logger("nav"))

	c.header = NewApplicationHeader("Application Server Console", func(token string) {
		if err := c.places.RevealPlace(token); err != nil {
			c.log.WithError(err).Warn("cannot reveal place")
		}
	})
	c.navTree = NewNavTreeView(c.places, c.bus, clk, log)
	c.serverView = NewServerView(builder, c.navTree, settings.Profile, cfg.RequestTimeout())
	c.server = NewServerMgmtPresenter(c.places, c.header, store, c.serverView, settings.Profile, cfg.RequestTimeout(), log)
	c.places.Register(c.server)

	c.txPanel = NewTXMetricsPanel(client, metrics.Options{
		MaxSamples:    cfg.MaxSamples,
		ChartsEnabled: settings.ChartsEnabled,
	}, cfg.PollInterval(), cfg.RequestTimeout(), logging.Logger("metrics"))

	for _, group := range meta.Groups() {
		for _, item := range group.Items {
			if item.Disabled {
				continue
			}
			p := NewSubsystemPresenter(item, meta, client, c.txPanel, c.showContent, cfg.RequestTimeout(), log)
			c.subsystems[item.Presenter] = p
			c.places.Register(p)
		}
	}
	c.places.OnNavigate(c.onNavigate)

	c.setupUI()
	return c
}

func (c *ConsoleApp) setupUI() {
	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { c.reloadActive() }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.SettingsIcon(), func() { c.showPreferences() }),
	)

	split := container.NewHSplit(
		c.serverView.Widget(),
		container.NewPadded(c.Content),
	)
	split.SetOffset(0.28)

	top := container.NewVBox(c.header.Widget(), toolbar)
	c.Window.SetContent(container.NewBorder(top, nil, nil, nil, split))
	c.Window.SetOnClosed(c.Close)
}

// Start reveals the server configuration.
func (c *ConsoleApp) Start() {
	c.log.Info("console starting")
	if err := c.places.RevealPlace(nav.NameTokenServerConfig); err != nil {
		c.log.WithError(err).Error("cannot reveal server configuration")
	}
}

func (c *ConsoleApp) Run() {
	c.Start()
	c.Window.ShowAndRun()
}

func (c *ConsoleApp) showContent(obj fyne.CanvasObject) {
	c.Content.Objects = []fyne.CanvasObject{obj}
	c.Content.Refresh()
}

// onNavigate deactivates the subsystem presenter a reveal left behind, shows
// the placeholder when no subsystem is revealed and keeps the tree selection
// in line with the revealed place.
func (c *ConsoleApp) onNavigate(hierarchy []nav.PlaceRequest) {
	leaf := hierarchy[len(hierarchy)-1]
	next := c.subsystems[leaf.NameToken]
	if next == nil {
		c.showContent(c.placeholder)
	}
	c.navTree.SyncSelection(nav.BuildToken(hierarchy))

	c.mu.Lock()
	prev := c.active
	c.active = next
	c.mu.Unlock()

	if prev != nil && prev != next {
		prev.Deactivate()
	}
}

func (c *ConsoleApp) reloadActive() {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active != nil {
		active.Reload()
	}
}

// Close stops background work.
func (c *ConsoleApp) Close() {
	c.navTree.Close()
	c.txPanel.Stop()
}

func (c *ConsoleApp) Places() *nav.PlaceManager { return c.places }

func (c *ConsoleApp) Header() *ApplicationHeader { return c.header }

func (c *ConsoleApp) NavTree() *NavTreeView { return c.navTree }

func (c *ConsoleApp) Server() *ServerMgmtPresenter { return c.server }

func (c *ConsoleApp) Subsystem(key string) *SubsystemPresenter { return c.subsystems[key] }
