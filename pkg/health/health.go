// Package health provides Kubernetes-style liveness and readiness probes.
//
// Each registered probe runs in its own goroutine at a fixed interval and
// uses consecutive failure/success thresholds to avoid flapping: a probe
// flips unhealthy only after failing several times in a row, and healthy
// again after the first success.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// kind separates liveness probes (is the process functional) from
// readiness probes (should it receive traffic).
type kind int

const (
	liveness kind = iota
	readiness
)

const (
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 1
)

// probe holds one check plus its runtime state. The threshold counters are
// touched only by the single run goroutine; healthy and lastErr are shared
// with HTTP handlers and use atomics.
type probe struct {
	name    string
	kind    kind
	timeout time.Duration
	check   CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

// run executes the probe once and applies the thresholds. Called from a
// single goroutine.
func (p *probe) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(checkCtx)
	p.lastErr.Store(&err)

	if err != nil {
		p.consecutiveOK = 0
		p.consecutiveFails++
		if p.consecutiveFails >= defaultFailureThreshold {
			p.healthy.Store(false)
		}
		return
	}
	p.consecutiveFails = 0
	p.consecutiveOK++
	if p.consecutiveOK >= defaultSuccessThreshold {
		p.healthy.Store(true)
	}
}

func (p *probe) failureMessage() string {
	if ptr := p.lastErr.Load(); ptr != nil && *ptr != nil {
		return (*ptr).Error()
	}
	return "check is unhealthy"
}

// Health manages the probe set for a service.
type Health struct {
	ready atomic.Bool

	// mu guards probes and cancel. Registration happens before Start;
	// HTTP handlers snapshot the slice under RLock.
	mu     sync.RWMutex
	probes []*probe
	cancel context.CancelFunc
}

// New creates a Health in the not-ready state; call SetReady(true) once
// initialization completes.
func New() *Health {
	return &Health{}
}

func (h *Health) add(k kind, name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := &probe{name: name, kind: k, timeout: timeout, check: check}
	p.healthy.Store(true) // assume healthy until proven otherwise
	h.probes = append(h.probes, p)
}

// AddLivenessCheck registers a liveness probe, e.g. a goroutine count
// watchdog.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(liveness, name, timeout, check)
}

// AddReadinessCheck registers a readiness probe, e.g. database
// connectivity.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(readiness, name, timeout, check)
}

// Start launches one goroutine per registered probe, each ticking at the
// given interval. Register all probes before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := make([]*probe, len(h.probes))
	copy(probes, h.probes)
	h.mu.Unlock()

	for _, p := range probes {
		go func(p *probe) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			p.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					p.run(ctx)
				}
			}
		}(p)
	}
}

// Stop cancels all probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate: true after initialization,
// false during graceful shutdown to drain traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service should receive traffic: the manual
// gate is open and every readiness probe is passing.
func (h *Health) IsReady() bool {
	return h.ready.Load() && len(h.failures(readiness)) == 0
}

// failures returns probe name -> failure message for unhealthy probes of
// the given kind.
func (h *Health) failures(k kind) map[string]string {
	h.mu.RLock()
	probes := make([]*probe, len(h.probes))
	copy(probes, h.probes)
	h.mu.RUnlock()

	out := make(map[string]string)
	for _, p := range probes {
		if p.kind == k && !p.healthy.Load() {
			out[p.name] = p.failureMessage()
		}
	}
	return out
}

// statusResponse is the JSON body for both probe endpoints.
type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 while all liveness probes pass,
// otherwise 503 with the failing probes listed.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, h.failures(liveness))
}

// ReadyEndpoint serves /readyz: 200 while the service is marked ready and
// all readiness probes pass, otherwise 503.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(readiness)
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
