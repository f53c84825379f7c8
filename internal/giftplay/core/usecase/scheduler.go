package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/ports"
	"gift-playback-service/internal/metrics"
)

// DefaultTransitionBuffer is added to an event's planned duration as the
// safety-net playback timeout.
const DefaultTransitionBuffer = 300 * time.Millisecond

// PlaybackScheduler is the single consumer draining one room's gift queue.
// It drives exactly one render at a time: pop the head event, invoke the
// renderer, then wait for the earlier of the renderer's completion signal,
// the safety-net timer (plannedDuration + transition buffer), an explicit
// skip, or session shutdown. The timer is only a net; a renderer completion
// or a skip cancels it, so no dangling wait outlives the slot.
//
// Renderer errors are fail-open: the event counts as completed immediately
// and the next queued item plays.
type PlaybackScheduler struct {
	roomID   string
	queue    *GiftEventQueue
	renderer ports.RendererPort
	buffer   time.Duration

	mu      sync.Mutex
	current *domain.GiftEvent
	skipCh  chan struct{}

	wake chan struct{}
	done chan struct{}
}

func NewPlaybackScheduler(roomID string, queue *GiftEventQueue, renderer ports.RendererPort, buffer time.Duration) *PlaybackScheduler {
	if buffer <= 0 {
		buffer = DefaultTransitionBuffer
	}
	return &PlaybackScheduler{
		roomID:   roomID,
		queue:    queue,
		renderer: renderer,
		buffer:   buffer,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the consumer loop. It returns immediately; the loop runs
// until ctx is cancelled.
func (s *PlaybackScheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Wait blocks until the consumer loop has exited.
func (s *PlaybackScheduler) Wait() {
	<-s.done
}

// Submit enqueues one event and wakes the consumer. A high-value arrival
// that outranks the active slot by more than one tier (domain.ShouldPreempt)
// retires the slot early; head insertion then makes the newcomer play next.
// Tail-appended events never preempt: queued work would play before them,
// so skipping the slot for their sake buys nothing. Returns false when the
// capacity policy dropped the event.
func (s *PlaybackScheduler) Submit(e *domain.GiftEvent) bool {
	if !s.queue.Enqueue(e) {
		return false
	}

	if e.TotalValue() > domain.HighValueThreshold {
		s.preemptFor(e)
	}
	s.notify()
	return true
}

// preemptFor retires the active slot if e outranks whatever is playing right
// now. The predicate runs against the live slot under the lock, so a slot
// that turned over since enqueue is re-evaluated, not skipped blindly.
func (s *PlaybackScheduler) preemptFor(e *domain.GiftEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || !domain.ShouldPreempt(e, s.current) {
		return
	}
	s.skipLocked()
}

// SubmitBatch appends a combo burst at the tail; burst entries never jump
// the queue and never preempt. Returns how many events were accepted.
func (s *PlaybackScheduler) SubmitBatch(events []*domain.GiftEvent) int {
	accepted := s.queue.EnqueueBatch(events)
	if accepted > 0 {
		s.notify()
	}
	return accepted
}

// SkipCurrent retires the active slot immediately regardless of remaining
// planned duration. The queue is untouched.
func (s *PlaybackScheduler) SkipCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipLocked()
}

func (s *PlaybackScheduler) skipLocked() {
	if s.skipCh != nil {
		close(s.skipCh)
		s.skipCh = nil
		metrics.PlaybacksSkipped.WithLabelValues(s.roomID).Inc()
	}
}

// Clear empties the queue and retires the active slot, used on room exit.
func (s *PlaybackScheduler) Clear() {
	s.queue.Clear()
	s.SkipCurrent()
}

// Current returns the event in the playback slot, or nil when idle.
func (s *PlaybackScheduler) Current() *domain.GiftEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *PlaybackScheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *PlaybackScheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		e := s.queue.DequeueNext()
		if e == nil {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		s.play(ctx, e)

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *PlaybackScheduler) play(ctx context.Context, e *domain.GiftEvent) {
	skip := make(chan struct{})

	s.mu.Lock()
	s.current = e
	s.skipCh = skip
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.current = nil
		s.skipCh = nil
		s.mu.Unlock()
	}()

	metrics.PlaybacksStarted.WithLabelValues(s.roomID).Inc()

	rendered, err := s.renderer.Render(ctx, s.roomID, e)
	if err != nil {
		// fail-open: a renderer failure must not stall the queue
		log.Printf("render failed for event %s in room %s: %v", e.ID, s.roomID, err)
		return
	}

	timer := time.NewTimer(e.PlannedDuration + s.buffer)
	defer timer.Stop()

	// a nil completion channel blocks forever; the timer then decides
	select {
	case <-rendered:
	case <-timer.C:
	case <-skip:
	case <-ctx.Done():
	}
}
