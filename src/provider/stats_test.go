package provider

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAtomicUsageStats_ConcurrentIncrements(t *testing.T) {
	stats := NewAtomicUsageStats()

	const workers = 10
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				tokens := uint64(i*perWorker + j)
				stats.IncrementRequest(tokens, float64(tokens)*0.00001)
			}
		}(i)
	}
	wg.Wait()

	final := stats.ToUsageStats()
	assert.Equal(t, uint64(workers*perWorker), final.TotalRequests)
	assert.Equal(t, uint64(workers*perWorker), final.RequestsToday)

	var expectedTokens uint64
	for i := 0; i < workers*perWorker; i++ {
		expectedTokens += uint64(i)
	}
	assert.Equal(t, expectedTokens, final.TotalTokens)
	assert.Equal(t, expectedTokens, final.TokensToday)

	expectedCost := float64(expectedTokens) * 0.00001
	assert.InDelta(t, expectedCost, final.TotalCost, 0.001)
	assert.InDelta(t, expectedCost, final.CostToday, 0.001)
}

func TestAtomicUsageStats_SnapshotNeverExceedsTotals(t *testing.T) {
	stats := NewAtomicUsageStats()

	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				stats.IncrementRequest(uint64(j+1), float64(j)*0.00002)
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				s := stats.ToUsageStats()
				assert.LessOrEqual(t, s.RequestsToday, s.TotalRequests)
				assert.LessOrEqual(t, s.TokensToday, s.TotalTokens)
				assert.LessOrEqual(t, s.CostToday, s.TotalCost+1e-9)
			}
		}()
	}

	wg.Wait()
}

func TestAtomicUsageStats_DayRollover(t *testing.T) {
	stats := NewAtomicUsageStats()

	current := time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	stats.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	stats.day.Store(dayNumber(current))

	stats.IncrementRequest(100, 0.5)
	stats.IncrementRequest(200, 1.0)

	before := stats.ToUsageStats()
	assert.Equal(t, uint64(2), before.RequestsToday)
	assert.Equal(t, uint64(300), before.TokensToday)

	// The clock crosses midnight.
	mu.Lock()
	current = time.Date(2026, time.March, 2, 0, 30, 0, 0, time.UTC)
	mu.Unlock()

	stats.IncrementRequest(50, 0.25)

	after := stats.ToUsageStats()
	assert.Equal(t, uint64(1), after.RequestsToday, "today window resets to the first increment of the new day")
	assert.Equal(t, uint64(50), after.TokensToday)
	assert.InDelta(t, 0.25, after.CostToday, 1e-9)

	assert.Equal(t, uint64(3), after.TotalRequests, "lifetime counters never reset")
	assert.Equal(t, uint64(350), after.TotalTokens)
	assert.InDelta(t, 1.75, after.TotalCost, 1e-9)
}

func TestAtomicUsageStats_StaleClockNeverRewindsDay(t *testing.T) {
	stats := NewAtomicUsageStats()

	day1 := time.Date(2026, time.March, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 2, 0, 1, 0, 0, time.UTC)

	var mu sync.Mutex
	current := day1
	stats.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	stats.day.Store(dayNumber(day1))

	stats.IncrementRequest(10, 0.01)

	mu.Lock()
	current = day2
	mu.Unlock()
	for i := 0; i < 5; i++ {
		stats.IncrementRequest(10, 0.01)
	}

	// A goroutine that read the clock just before midnight lands its
	// increment after the rollover. It must not move the day marker
	// backwards or reset the window that already accumulated day-2 counts.
	mu.Lock()
	current = day1
	mu.Unlock()
	stats.IncrementRequest(10, 0.01)

	mu.Lock()
	current = day2
	mu.Unlock()
	stats.IncrementRequest(10, 0.01)
	stats.IncrementRequest(10, 0.01)

	assert.Equal(t, dayNumber(day2), stats.day.Load())

	final := stats.ToUsageStats()
	assert.Equal(t, uint64(8), final.RequestsToday, "today window keeps every count since the rollover")
	assert.Equal(t, uint64(9), final.TotalRequests)
}

func TestAtomicUsageStats_RolloverUnderConcurrency(t *testing.T) {
	stats := NewAtomicUsageStats()

	day1 := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	var mu sync.Mutex
	current := day1
	stats.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	stats.day.Store(dayNumber(day1))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				stats.IncrementRequest(1, 0.001)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	current = day2
	mu.Unlock()

	// Concurrent increments racing with the rollover: the reset must not
	// drop any of the new day's updates from the lifetime counters.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				stats.IncrementRequest(1, 0.001)
			}
		}()
	}
	wg.Wait()

	final := stats.ToUsageStats()
	assert.Equal(t, uint64(2000), final.TotalRequests)
	assert.Equal(t, uint64(1000), final.RequestsToday)
}

func BenchmarkAtomicUsageStats_IncrementRequest(b *testing.B) {
	stats := NewAtomicUsageStats()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			stats.IncrementRequest(42, 0.0005)
		}
	})
}
