package dispatch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asconsole/pkg/config"
	"asconsole/pkg/dispatch"
	apperrors "asconsole/pkg/errors"
	"asconsole/pkg/mgmt"
	"asconsole/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEndpoint(t *testing.T) (*dispatch.Client, *mgmt.Server) {
	t.Helper()
	srv, err := mgmt.NewServer(config.EndpointConfig{}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return dispatch.NewClientForURL(ts.URL, 5*time.Second), srv
}

func TestClientReadChildrenNames(t *testing.T) {
	client, _ := newEndpoint(t)

	names, err := client.ReadChildrenNames(context.Background(),
		dispatch.MustParseAddress("subsystem=datasources"), "data-source")
	require.NoError(t, err)
	assert.Equal(t, []string{"ExampleDS", "OrdersDS"}, names)
}

func TestClientReadAndWriteAttribute(t *testing.T) {
	client, _ := newEndpoint(t)
	ctx := context.Background()
	addr := dispatch.MustParseAddress("subsystem=datasources/data-source=ExampleDS")

	attrs, err := client.ReadResource(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "h2", attrs["driver-name"])
	assert.Equal(t, float64(20), attrs["max-pool-size"])

	require.NoError(t, client.WriteAttribute(ctx, addr, "max-pool-size", 40))

	value, err := client.ReadAttribute(ctx, addr, "max-pool-size")
	require.NoError(t, err)
	assert.Equal(t, float64(40), value)
}

func TestClientOperationFailed(t *testing.T) {
	client, _ := newEndpoint(t)

	err := client.WriteAttribute(context.Background(),
		dispatch.MustParseAddress("subsystem=transactions"), "enable-statistics", "yes")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOperationFailed))
	assert.Contains(t, err.Error(), "wrong type")

	_, err = client.ReadResource(context.Background(), dispatch.MustParseAddress("subsystem=nope"))
	assert.Equal(t, apperrors.ErrCodeOperationFailed, apperrors.CodeOf(err))
}

func TestClientInvalidOperationIsNotSent(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer ts.Close()

	client := dispatch.NewClientForURL(ts.URL, time.Second)
	_, err := client.ReadChildrenNames(context.Background(), dispatch.Address{}, "")
	assert.Equal(t, apperrors.ErrCodeInvalidRequest, apperrors.CodeOf(err))
	assert.Zero(t, hits)
}

func TestClientUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := dispatch.NewClientForURL(url, time.Second)
	_, err := client.ReadResource(context.Background(), dispatch.Address{})
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
}

func TestClientNonJSONResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "proxy error", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := dispatch.NewClientForURL(ts.URL, time.Second)
	_, err := client.ReadResource(context.Background(), dispatch.Address{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientFetchMetrics(t *testing.T) {
	client, _ := newEndpoint(t)

	families, err := client.FetchMetrics(context.Background())
	require.NoError(t, err)
	require.Contains(t, families, dispatch.MetricTxCommitted)
	assert.Contains(t, families, dispatch.MetricTxInflight)
}

func TestParseMetrics(t *testing.T) {
	text := strings.Join([]string{
		"# TYPE asconsole_tx_committed_total counter",
		"asconsole_tx_committed_total 12",
		"# TYPE asconsole_tx_inflight gauge",
		"asconsole_tx_inflight 1",
		"",
	}, "\n")
	families, err := dispatch.ParseMetrics(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 12.0, families[dispatch.MetricTxCommitted].GetMetric()[0].GetCounter().GetValue())

	_, err = dispatch.ParseMetrics(strings.NewReader("not a metric line {"))
	assert.Error(t, err)
}

func TestSubsystemStore(t *testing.T) {
	client, _ := newEndpoint(t)
	store := dispatch.NewSubsystemStore(client, nil)

	records, err := store.LoadSubsystems(context.Background(), dispatch.DefaultProfile)
	require.NoError(t, err)
	assert.Contains(t, records, model.SubsystemRecord{Title: "datasources", Key: "datasources"})
	assert.Contains(t, records, model.SubsystemRecord{Title: "messaging", Key: "messaging"})

	servers, err := store.LoadServerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"backup", "default"}, servers)
}

type namesExecutor struct {
	dispatch.Executor
	names []string
}

func (e namesExecutor) ReadChildrenNames(context.Context, dispatch.Address, string) ([]string, error) {
	return e.names, nil
}

func TestSubsystemStoreSkipsUnsupportedServerNames(t *testing.T) {
	exec := namesExecutor{names: []string{"live", "a/b", "x=y", "p;name=q", "{name}", "", "backup"}}
	store := dispatch.NewSubsystemStore(exec, nil)

	servers, err := store.LoadServerNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"backup", "live"}, servers)
}

func TestNewClientUsesConfig(t *testing.T) {
	cfg := config.DefaultConsoleConfig()
	cfg.EndpointHost = "mgmt.local"
	cfg.Port = 19990
	client := dispatch.NewClient(cfg)
	assert.Equal(t, "http://mgmt.local:19990", client.BaseURL())
}
