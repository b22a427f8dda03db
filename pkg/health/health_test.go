package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

func TestReadyEndpointNotReady(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "not ready")
}

func TestReadyEndpointReady(t *testing.T) {
	h := New()
	h.SetReady(true)

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLivenessFailureThreshold(t *testing.T) {
	h := New()
	h.AddLivenessCheck("always-fails", time.Second, func(context.Context) error {
		return errors.New("broken")
	})

	p := h.probes[0]
	ctx := context.Background()

	// Stays healthy until the failure threshold is reached.
	p.run(ctx)
	p.run(ctx)
	require.Empty(t, h.failures(liveness))

	p.run(ctx)
	failures := h.failures(liveness)
	require.Equal(t, map[string]string{"always-fails": "broken"}, failures)

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadinessRecovery(t *testing.T) {
	h := New()
	h.SetReady(true)

	healthy := false
	h.AddReadinessCheck("flaky", time.Second, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("down")
	})

	p := h.probes[0]
	ctx := context.Background()
	for range defaultFailureThreshold {
		p.run(ctx)
	}
	require.False(t, h.IsReady())

	// Recovers after a single success.
	healthy = true
	p.run(ctx)
	require.True(t, h.IsReady())
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	require.Error(t, GoroutineCountCheck(0)(context.Background()))
}

func TestStartStop(t *testing.T) {
	h := New()
	calls := make(chan struct{}, 16)
	h.AddLivenessCheck("tick", time.Second, func(context.Context) error {
		select {
		case calls <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("probe never ran")
	}
}
