package observability

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Concurrent(t *testing.T) {
	const numGoroutines = 20

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			assert.NoError(t, err)
			if assert.NotNil(t, m) {
				assert.NotNil(t, m.Backend)
				assert.NotNil(t, m.Submission)
				assert.NotNil(t, m.Loader)
			}
		})
	}
	wg.Wait()
}

func TestEndpoint_ServesMetricsAndStops(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	m.Loader.SetAppliedGeneration(3)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	endpoint := NewEndpoint(listener.Addr().String(), m)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() { done <- endpoint.Serve(ctx, listener) }()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ = io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, string(body), "ecotachos_load_applied_generation 3")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("endpoint did not stop")
	}
}
