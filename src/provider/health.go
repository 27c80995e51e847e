package provider

import (
	"sync"
	"time"

	"github.com/quillforge/quillforge/src/models"
)

const (
	// A provider is marked unhealthy after this many consecutive failures.
	failureThreshold = 3

	// Smoothing factor for the rolling latency average.
	latencyAlpha = 0.3

	initialLatencyEstimate = time.Second
)

// ProviderHealth is a minimal two-state circuit breaker. All mutation goes
// through RecordSuccess/RecordFailure so the threshold and reset rules live
// in one place. Safe for concurrent use.
type ProviderHealth struct {
	mu                  sync.Mutex
	healthy             bool
	consecutiveFailures uint32
	lastSuccess         time.Time
	lastFailure         time.Time
	avgLatency          time.Duration
}

func NewProviderHealth() *ProviderHealth {
	return &ProviderHealth{
		healthy:    true,
		avgLatency: initialLatencyEstimate,
	}
}

// RecordSuccess resets the failure count, restores the healthy state and
// folds latency into the rolling average with exponential smoothing.
func (h *ProviderHealth) RecordSuccess(latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.healthy = true
	h.consecutiveFailures = 0
	h.lastSuccess = time.Now()
	h.avgLatency = time.Duration(
		latencyAlpha*float64(latency) + (1-latencyAlpha)*float64(h.avgLatency),
	)
}

// RecordFailure increments the failure count; at failureThreshold the
// provider flips to unhealthy.
func (h *ProviderHealth) RecordFailure() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastFailure = time.Now()
	h.consecutiveFailures++
	if h.consecutiveFailures >= failureThreshold {
		h.healthy = false
	}
}

// IsHealthy reports whether the provider may receive new requests.
func (h *ProviderHealth) IsHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.healthy
}

// Snapshot returns a copy of the current state.
func (h *ProviderHealth) Snapshot() models.HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	return models.HealthStatus{
		IsHealthy:           h.healthy,
		ConsecutiveFailures: h.consecutiveFailures,
		LastSuccess:         h.lastSuccess,
		LastFailure:         h.lastFailure,
		AverageLatency:      h.avgLatency,
	}
}
