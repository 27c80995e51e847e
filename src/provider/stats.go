package provider

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quillforge/quillforge/src/models"
)

// AtomicUsageStats keeps running request/token/cost counters for one
// provider, in lifetime and calendar-day windows. Increments use hardware
// atomics on the hot path; a narrow mutex guards only the day rollover so a
// reset can never race with a concurrent increment.
//
// Write ordering (lifetime first, today second) paired with the reverse read
// ordering in ToUsageStats guarantees a snapshot never observes a today
// value above its lifetime counterpart.
type AtomicUsageStats struct {
	totalRequests atomic.Uint64
	totalTokens   atomic.Uint64
	totalCostBits atomic.Uint64

	requestsToday atomic.Uint64
	tokensToday   atomic.Uint64
	costTodayBits atomic.Uint64

	day        atomic.Int64
	rolloverMu sync.Mutex

	now func() time.Time
}

func NewAtomicUsageStats() *AtomicUsageStats {
	s := &AtomicUsageStats{now: time.Now}
	s.day.Store(dayNumber(s.now()))
	return s
}

// IncrementRequest atomically adds one request, tokens and cost to both
// windows. The first increment of a new calendar day resets the today window
// before anything is added, so its own values become the day's opening
// counts. Rollover happens only when the observed day is strictly newer, so
// a goroutine that read the clock just before midnight and lands late cannot
// rewind the day marker or wipe the new window; its adds fold into the
// current day.
func (s *AtomicUsageStats) IncrementRequest(tokens uint64, cost float64) {
	day := dayNumber(s.now())
	if day > s.day.Load() {
		s.rolloverMu.Lock()
		if day > s.day.Load() {
			s.requestsToday.Store(0)
			s.tokensToday.Store(0)
			s.costTodayBits.Store(0)
			s.day.Store(day)
		}
		s.rolloverMu.Unlock()
	}

	s.totalRequests.Add(1)
	s.totalTokens.Add(tokens)
	addFloat(&s.totalCostBits, cost)

	s.requestsToday.Add(1)
	s.tokensToday.Add(tokens)
	addFloat(&s.costTodayBits, cost)
}

// ToUsageStats returns a consistent snapshot. Today counters are read before
// lifetime counters; combined with the write ordering in IncrementRequest a
// reader can never see today > total.
func (s *AtomicUsageStats) ToUsageStats() models.UsageStats {
	requestsToday := s.requestsToday.Load()
	tokensToday := s.tokensToday.Load()
	costToday := math.Float64frombits(s.costTodayBits.Load())

	return models.UsageStats{
		RequestsToday: requestsToday,
		TokensToday:   tokensToday,
		CostToday:     costToday,
		TotalRequests: s.totalRequests.Load(),
		TotalTokens:   s.totalTokens.Load(),
		TotalCost:     math.Float64frombits(s.totalCostBits.Load()),
	}
}

// addFloat adds delta to a float64 stored as raw bits, using a
// compare-and-swap loop so concurrent additions are never lost.
func addFloat(bits *atomic.Uint64, delta float64) {
	for {
		old := bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func dayNumber(t time.Time) int64 {
	year, month, day := t.Date()
	return int64(year)*10000 + int64(month)*100 + int64(day)
}
