package api_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gccache/internal/api"
	"github.com/mcoot/gccache/internal/testutil"
)

func startServer(t *testing.T, ts *testServer) *api.Server {
	t.Helper()

	cfg := api.DefaultServerConfig()
	cfg.Port = 0
	cfg.ShutdownTimeout = 2 * time.Second
	server := api.NewServer(ts.handler, cfg, testutil.NopLogger())
	server.OnShutdown(ts.app.Events.Close)
	require.NoError(t, server.Listen())

	done := make(chan error, 1)
	go func() { done <- server.Start() }()
	t.Cleanup(func() {
		_ = server.Shutdown(context.Background())
		<-done
	})
	return server
}

func TestServerBindsFreePort(t *testing.T) {
	ts := newTestServer(t)
	server := startServer(t, ts)

	assert.NotContains(t, server.Addr(), ":0")

	resp, err := http.Get(server.URL() + "/api/v1/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerShutdownEndsEventStreams(t *testing.T) {
	ts := newTestServer(t)
	server := startServer(t, ts)

	resp, err := http.Get(server.URL() + "/api/v1/events")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: connected", nextEvent(t, reader))

	start := time.Now()
	require.NoError(t, server.Shutdown(context.Background()))
	assert.Less(t, time.Since(start), time.Second)

	_, err = io.ReadAll(reader)
	assert.NoError(t, err)
}
