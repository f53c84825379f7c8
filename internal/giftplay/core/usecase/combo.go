package usecase

import (
	"sync"
	"time"

	"gift-playback-service/internal/giftplay/core/domain"
)

// DefaultComboWindow is the interval within which repeated sends of the same
// gift by the same sender merge into one visual event.
const DefaultComboWindow = 3000 * time.Millisecond

// ComboAggregator merges temporally adjacent repeat sends of the same gift
// from the same sender into a single visual event with summed quantity.
//
// Arrivals may come from multiple producers; the read-modify-write of the
// combo counter is serialized by a mutex so interleaved sends cannot
// under-count a combo.
type ComboAggregator struct {
	mu     sync.Mutex
	window time.Duration

	lastSender  string
	lastGift    string
	lastArrival time.Time
	accumulated int64

	now func() time.Time
}

func NewComboAggregator(window time.Duration) *ComboAggregator {
	if window <= 0 {
		window = DefaultComboWindow
	}
	return &ComboAggregator{
		window: window,
		now:    time.Now,
	}
}

// Process returns the effective event for the incoming send. When the sender
// and gift name match the current combo and the gap since the last arrival is
// below the combo window, the returned event carries the summed quantity.
// Otherwise a new combo starts and the event passes through unmodified.
func (a *ComboAggregator) Process(e *domain.GiftEvent) *domain.GiftEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()

	sameCombo := e.SenderName == a.lastSender &&
		e.GiftName == a.lastGift &&
		!a.lastArrival.IsZero() &&
		now.Sub(a.lastArrival) < a.window

	if sameCombo {
		a.accumulated += e.Quantity
	} else {
		a.lastSender = e.SenderName
		a.lastGift = e.GiftName
		a.accumulated = e.Quantity
	}
	a.lastArrival = now

	merged := *e
	merged.Quantity = a.accumulated
	return &merged
}

// Reset clears the current combo, used when leaving a room or invalidating
// session context.
func (a *ComboAggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lastSender = ""
	a.lastGift = ""
	a.lastArrival = time.Time{}
	a.accumulated = 0
}
