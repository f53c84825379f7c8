package usecase

import (
	"sync"

	"gift-playback-service/internal/giftplay/core/domain"
)

// DefaultQueueCapacity bounds how many events may wait for playback in one
// room before the drop policy kicks in.
const DefaultQueueCapacity = 256

// GiftEventQueue holds pending visual events for one room session.
//
// Insertion is tier-dependent, not plain FIFO: an event whose total value
// exceeds domain.HighValueThreshold goes to the head of the queue, ahead of
// everything waiting including earlier high-value events, so each new
// high-value arrival becomes the very next to play. Everything else appends
// at the tail. The result is LIFO ordering among high-value events and FIFO
// among regular ones, with high-value always strictly ahead.
//
// The queue is bounded. When full, the oldest entry of the lowest waiting
// tier is dropped to make room; if the incoming event is at or below that
// tier, the incoming event is dropped instead. Dropped() reports the running
// count so callers can surface it.
type GiftEventQueue struct {
	mu       sync.Mutex
	items    []*domain.GiftEvent
	capacity int
	dropped  int64
}

func NewGiftEventQueue(capacity int) *GiftEventQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &GiftEventQueue{
		items:    make([]*domain.GiftEvent, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue inserts one event per the tier-dependent policy. It returns false
// when the event was dropped by the capacity policy.
func (q *GiftEventQueue) Enqueue(e *domain.GiftEvent) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enqueueLocked(e)
}

// EnqueueBatch appends events at the tail in order, used for combo bursts
// that should not individually jump the queue. It returns how many events
// were accepted.
func (q *GiftEventQueue) EnqueueBatch(events []*domain.GiftEvent) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	accepted := 0
	for _, e := range events {
		if q.appendTailLocked(e) {
			accepted++
		}
	}
	return accepted
}

// DequeueNext pops the head event, or nil when the queue is empty.
func (q *GiftEventQueue) DequeueNext() *domain.GiftEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e
}

// Clear empties the queue.
func (q *GiftEventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

func (q *GiftEventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many events the capacity policy discarded.
func (q *GiftEventQueue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *GiftEventQueue) enqueueLocked(e *domain.GiftEvent) bool {
	if e.TotalValue() > domain.HighValueThreshold {
		if len(q.items) >= q.capacity && !q.evictLowestLocked(e) {
			q.dropped++
			return false
		}
		q.items = append([]*domain.GiftEvent{e}, q.items...)
		return true
	}
	return q.appendTailLocked(e)
}

func (q *GiftEventQueue) appendTailLocked(e *domain.GiftEvent) bool {
	if len(q.items) >= q.capacity && !q.evictLowestLocked(e) {
		q.dropped++
		return false
	}
	q.items = append(q.items, e)
	return true
}

// evictLowestLocked drops the oldest waiting entry of the minimum tier to
// make room for incoming. Returns false when incoming itself is at or below
// that tier, in which case incoming should be dropped instead.
func (q *GiftEventQueue) evictLowestLocked(incoming *domain.GiftEvent) bool {
	lowest := domain.TierLegendary + 1
	idx := -1
	for i, it := range q.items {
		if tier := domain.TierFor(it.TotalValue()); tier < lowest {
			lowest = tier
			idx = i
		}
	}
	if idx < 0 || domain.TierFor(incoming.TotalValue()) <= lowest {
		return false
	}
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	q.dropped++
	return true
}
