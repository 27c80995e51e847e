package provider

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderHealth_StartsHealthy(t *testing.T) {
	h := NewProviderHealth()

	assert.True(t, h.IsHealthy())

	snapshot := h.Snapshot()
	assert.True(t, snapshot.IsHealthy)
	assert.Equal(t, uint32(0), snapshot.ConsecutiveFailures)
}

func TestProviderHealth_UnhealthyAfterThreeFailures(t *testing.T) {
	h := NewProviderHealth()

	h.RecordFailure()
	assert.True(t, h.IsHealthy(), "one failure should not trip the breaker")

	h.RecordFailure()
	assert.True(t, h.IsHealthy(), "two failures should not trip the breaker")

	h.RecordFailure()
	assert.False(t, h.IsHealthy(), "three consecutive failures should trip the breaker")
	assert.Equal(t, uint32(3), h.Snapshot().ConsecutiveFailures)
}

func TestProviderHealth_SuccessRestoresHealth(t *testing.T) {
	h := NewProviderHealth()

	for i := 0; i < 5; i++ {
		h.RecordFailure()
	}
	assert.False(t, h.IsHealthy())

	h.RecordSuccess(100 * time.Millisecond)

	snapshot := h.Snapshot()
	assert.True(t, snapshot.IsHealthy)
	assert.Equal(t, uint32(0), snapshot.ConsecutiveFailures)
	assert.False(t, snapshot.LastSuccess.IsZero())
}

func TestProviderHealth_LatencySmoothing(t *testing.T) {
	h := NewProviderHealth()

	// Starts from the 1s initial estimate; repeated fast calls pull the
	// average down toward the observed latency.
	for i := 0; i < 50; i++ {
		h.RecordSuccess(100 * time.Millisecond)
	}

	avg := h.Snapshot().AverageLatency
	assert.Less(t, avg, 200*time.Millisecond)
	assert.GreaterOrEqual(t, avg, 100*time.Millisecond)
}

func TestProviderHealth_InvariantUnderConcurrency(t *testing.T) {
	h := NewProviderHealth()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if (i+j)%2 == 0 {
					h.RecordFailure()
				} else {
					h.RecordSuccess(time.Millisecond)
				}

				s := h.Snapshot()
				// The healthy flag must always agree with the failure count.
				assert.Equal(t, s.ConsecutiveFailures < 3, s.IsHealthy)
			}
		}(i)
	}
	wg.Wait()
}
