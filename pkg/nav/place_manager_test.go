package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPresenter struct {
	token    string
	calls    *[]string
	onPrep   func(req PlaceRequest)
	requests []PlaceRequest
}

func (p *recordingPresenter) NameToken() string { return p.token }

func (p *recordingPresenter) PrepareFromRequest(req PlaceRequest) {
	*p.calls = append(*p.calls, "prepare:"+p.token)
	p.requests = append(p.requests, req)
	if p.onPrep != nil {
		p.onPrep(req)
	}
}

func (p *recordingPresenter) OnReset() {
	*p.calls = append(*p.calls, "reset:"+p.token)
}

func TestPlaceManagerLeafPrepareParentsReset(t *testing.T) {
	var calls []string
	pm := NewPlaceManager(nil)
	pm.Register(&recordingPresenter{token: "server", calls: &calls})
	msg := &recordingPresenter{token: "messaging", calls: &calls}
	pm.Register(msg)

	require.NoError(t, pm.RevealPlace("server/messaging;name=default"))

	assert.Equal(t, []string{"prepare:messaging", "reset:server", "reset:messaging"}, calls)
	assert.Equal(t, "default", msg.requests[0].Param("name"))
	assert.Equal(t, "server/messaging;name=default", pm.CurrentToken())
}

func TestPlaceManagerRedirectFromPrepare(t *testing.T) {
	var calls []string
	pm := NewPlaceManager(nil)
	server := &recordingPresenter{token: "server", calls: &calls}
	redirected := false
	server.onPrep = func(req PlaceRequest) {
		if !redirected {
			redirected = true
			pm.RevealRelativePlace(NewPlaceRequest("datasources"))
		}
	}
	pm.Register(server)
	pm.Register(&recordingPresenter{token: "datasources", calls: &calls})

	var navigated []string
	pm.OnNavigate(func(h []PlaceRequest) { navigated = append(navigated, BuildToken(h)) })

	require.NoError(t, pm.RevealPlace("server"))

	assert.Equal(t, []string{"prepare:server", "prepare:datasources", "reset:server", "reset:datasources"}, calls)
	assert.Equal(t, "server/datasources", pm.CurrentToken())
	assert.Equal(t, []string{"server/datasources"}, navigated)
}

func TestPlaceManagerUnknownPresenter(t *testing.T) {
	var calls []string
	pm := NewPlaceManager(nil)
	pm.Register(&recordingPresenter{token: "server", calls: &calls})

	require.NoError(t, pm.RevealPlace("server/unknown"))
	assert.Equal(t, []string{"reset:server"}, calls)
	assert.Equal(t, "server/unknown", pm.CurrentToken())
}

func TestPlaceManagerRejectsBadToken(t *testing.T) {
	pm := NewPlaceManager(nil)
	assert.Error(t, pm.RevealPlace(""))
	assert.Empty(t, pm.CurrentHierarchy())
}
