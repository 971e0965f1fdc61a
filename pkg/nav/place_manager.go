package nav

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Presenter is a navigable screen. PrepareFromRequest is called on the
// presenter owning the leaf of the revealed hierarchy; OnReset is called on
// every registered presenter along the hierarchy, parents first.
type Presenter interface {
	NameToken() string
	PrepareFromRequest(req PlaceRequest)
	OnReset()
}

// PlaceManager reveals places. A reveal requested while another is running
// (for example a redirect from PrepareFromRequest) replaces it.
type PlaceManager struct {
	mu         sync.Mutex
	presenters map[string]Presenter
	current    []PlaceRequest
	navigating bool
	pending    []PlaceRequest
	listeners  []func([]PlaceRequest)
	log        *logrus.Entry
}

func NewPlaceManager(log *logrus.Entry) *PlaceManager {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PlaceManager{presenters: make(map[string]Presenter), log: log}
}

func (m *PlaceManager) Register(p Presenter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presenters[p.NameToken()] = p
}

// OnNavigate registers a callback run after each completed reveal.
func (m *PlaceManager) OnNavigate(fn func(hierarchy []PlaceRequest)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *PlaceManager) RevealPlace(token string) error {
	hierarchy, err := ParseToken(token)
	if err != nil {
		return fmt.Errorf("reveal place: %w", err)
	}
	m.RevealPlaceHierarchy(hierarchy)
	return nil
}

// RevealRelativePlace appends req to the current hierarchy and reveals it.
func (m *PlaceManager) RevealRelativePlace(req PlaceRequest) {
	m.mu.Lock()
	base := m.current
	if m.pending != nil {
		base = m.pending
	}
	hierarchy := make([]PlaceRequest, len(base), len(base)+1)
	copy(hierarchy, base)
	m.mu.Unlock()

	m.RevealPlaceHierarchy(append(hierarchy, req))
}

func (m *PlaceManager) RevealPlaceHierarchy(hierarchy []PlaceRequest) {
	if len(hierarchy) == 0 {
		return
	}

	m.mu.Lock()
	if m.navigating {
		m.pending = hierarchy
		m.mu.Unlock()
		return
	}
	m.navigating = true

	for {
		m.current = hierarchy
		m.mu.Unlock()

		completed := m.walk(hierarchy)

		m.mu.Lock()
		if completed && m.pending == nil {
			listeners := append([]func([]PlaceRequest){}, m.listeners...)
			m.navigating = false
			m.mu.Unlock()
			for _, fn := range listeners {
				fn(hierarchy)
			}
			return
		}
		hierarchy = m.pending
		m.pending = nil
	}
}

// walk returns false when a redirect interrupted it.
func (m *PlaceManager) walk(hierarchy []PlaceRequest) bool {
	leaf := hierarchy[len(hierarchy)-1]
	m.log.WithField("token", BuildToken(hierarchy)).Debug("reveal")

	if p := m.presenter(leaf.NameToken); p != nil {
		p.PrepareFromRequest(leaf)
		if m.redirected() {
			return false
		}
	} else {
		m.log.WithField("token", leaf.NameToken).Warn("no presenter for place")
	}

	for _, req := range hierarchy {
		if p := m.presenter(req.NameToken); p != nil {
			p.OnReset()
			if m.redirected() {
				return false
			}
		}
	}
	return true
}

func (m *PlaceManager) presenter(token string) Presenter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presenters[token]
}

func (m *PlaceManager) redirected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// CurrentHierarchy returns a copy of the revealed hierarchy.
func (m *PlaceManager) CurrentHierarchy() []PlaceRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlaceRequest(nil), m.current...)
}

func (m *PlaceManager) CurrentToken() string {
	return BuildToken(m.CurrentHierarchy())
}
