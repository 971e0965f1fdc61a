package ui

import (
	"context"
	"sync"
	"time"

	"asconsole/pkg/async"
	"asconsole/pkg/logging"
	"asconsole/pkg/model"
	"asconsole/pkg/nav"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
)

// ServerConfigTitle is the header content shown for the server configuration.
const ServerConfigTitle = "Server Configuration"

type revealState int

const (
	unrevealed revealState = iota
	defaultRevealed
)

type loadState int

const (
	notLoaded loadState = iota
	loading
	loaded
)

func (s loadState) String() string {
	switch s {
	case loading:
		return "loading"
	case loaded:
		return "loaded"
	default:
		return "not-loaded"
	}
}

// SubsystemLoader lists the subsystems installed in a profile.
type SubsystemLoader interface {
	LoadSubsystems(ctx context.Context, profile string) ([]model.SubsystemRecord, error)
}

// ServerMgmtView receives the installed subsystems once they are known.
type ServerMgmtView interface {
	UpdateFrom(records []model.SubsystemRecord)
}

// RelativeRevealer reveals a child of the current place.
type RelativeRevealer interface {
	RevealRelativePlace(req nav.PlaceRequest)
}

// Header is the part of the application header a presenter drives.
type Header interface {
	Highlight(token string)
	SetContent(title string)
}

// ServerMgmtPresenter owns the "server" place. The first request for the bare
// place is redirected to the datasources child, and the first reset loads the
// subsystems of the profile. Neither happens again for the lifetime of the
// presenter, whether the load succeeded or not.
type ServerMgmtPresenter struct {
	mu     sync.Mutex
	reveal revealState
	load   loadState

	places  RelativeRevealer
	header  Header
	store   SubsystemLoader
	view    ServerMgmtView
	profile string
	timeout time.Duration

	post   func(func())
	report func(string, error)
	log    *logrus.Entry
}

func NewServerMgmtPresenter(places RelativeRevealer, header Header, store SubsystemLoader, view ServerMgmtView, profile string, timeout time.Duration, log *logrus.Entry) *ServerMgmtPresenter {
	if log == nil {
		log = logging.Logger("ui")
	}
	if profile == "" {
		profile = "default"
	}
	return &ServerMgmtPresenter{
		places:  places,
		header:  header,
		store:   store,
		view:    view,
		profile: profile,
		timeout: timeout,
		post:    fyne.Do,
		report:  logging.ReportError,
		log:     log,
	}
}

func (p *ServerMgmtPresenter) NameToken() string { return nav.NameTokenServerConfig }

func (p *ServerMgmtPresenter) PrepareFromRequest(req nav.PlaceRequest) {
	if req.NameToken != nav.NameTokenServerConfig {
		return
	}

	p.mu.Lock()
	if p.reveal == defaultRevealed {
		p.mu.Unlock()
		return
	}
	p.reveal = defaultRevealed
	p.mu.Unlock()

	p.places.RevealRelativePlace(nav.NewPlaceRequest(nav.NameTokenDataSources))
}

func (p *ServerMgmtPresenter) OnReset() {
	p.header.Highlight(nav.NameTokenServerConfig)

	p.mu.Lock()
	if p.load != notLoaded {
		p.mu.Unlock()
		return
	}
	p.load = loading
	p.mu.Unlock()

	p.header.SetContent(ServerConfigTitle)
	p.loadSubsystems()
}

func (p *ServerMgmtPresenter) loadSubsystems() {
	log := p.log.WithField("profile", p.profile)
	log.Debug("loading subsystems")

	async.Then(context.Background(),
		func(ctx context.Context) ([]model.SubsystemRecord, error) {
			if p.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, p.timeout)
				defer cancel()
			}
			return p.store.LoadSubsystems(ctx, p.profile)
		},
		func(records []model.SubsystemRecord) {
			p.setLoaded()
			log.WithField("subsystems", len(records)).Debug("subsystems loaded")
			p.post(func() { p.view.UpdateFrom(records) })
		},
		func(err error) {
			p.setLoaded()
			p.report("Failed to load subsystems", err)
		},
	)
}

func (p *ServerMgmtPresenter) setLoaded() {
	p.mu.Lock()
	p.load = loaded
	p.mu.Unlock()
}

// Revealed reports whether the default child has been revealed.
func (p *ServerMgmtPresenter) Revealed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reveal == defaultRevealed
}

func (p *ServerMgmtPresenter) LoadState() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load.String()
}
