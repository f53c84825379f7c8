package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"gift-playback-service/internal/giftplay/core/ports"
)

// SessionConfig carries the per-room playback tunables.
type SessionConfig struct {
	ComboWindow      time.Duration
	TransitionBuffer time.Duration
	QueueCapacity    int
}

// RoomSession owns every piece of mutable playback state for one live room:
// the combo state, the queue, the scheduler and its playback slot. Nothing in
// it is shared across rooms, so repeated enter/exit of a room cannot leak
// state.
type RoomSession struct {
	RoomID string

	combo     *ComboAggregator
	queue     *GiftEventQueue
	scheduler *PlaybackScheduler
	cancel    context.CancelFunc
}

func newRoomSession(roomID string, renderer ports.RendererPort, cfg SessionConfig) *RoomSession {
	queue := NewGiftEventQueue(cfg.QueueCapacity)
	ctx, cancel := context.WithCancel(context.Background())

	s := &RoomSession{
		RoomID:    roomID,
		combo:     NewComboAggregator(cfg.ComboWindow),
		queue:     queue,
		scheduler: NewPlaybackScheduler(roomID, queue, renderer, cfg.TransitionBuffer),
		cancel:    cancel,
	}
	s.scheduler.Start(ctx)
	return s
}

// Skip retires the active playback slot.
func (s *RoomSession) Skip() {
	s.scheduler.SkipCurrent()
}

// QueueDepth returns how many events are waiting for playback.
func (s *RoomSession) QueueDepth() int {
	return s.queue.Len()
}

// DroppedCount returns how many events the capacity policy discarded.
func (s *RoomSession) DroppedCount() int64 {
	return s.queue.Dropped()
}

func (s *RoomSession) close() {
	s.scheduler.Clear()
	s.combo.Reset()
	s.cancel()
	s.scheduler.Wait()
}

// SessionManager scopes playback state to room sessions so that concurrent
// rooms stay isolated.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*RoomSession

	renderer ports.RendererPort
	cfg      SessionConfig

	// CloseHook runs after a session is torn down, e.g. to reset the room's
	// running stats.
	CloseHook func(roomID string)
}

func NewSessionManager(renderer ports.RendererPort, cfg SessionConfig) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*RoomSession),
		renderer: renderer,
		cfg:      cfg,
	}
}

// Open returns the room's session, creating it when absent.
func (m *SessionManager) Open(roomID string) *RoomSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[roomID]; ok {
		return s
	}
	s := newRoomSession(roomID, m.renderer, m.cfg)
	m.sessions[roomID] = s
	log.Printf("opened gift session for room %s", roomID)
	return s
}

// Get returns the room's session if one is open.
func (m *SessionManager) Get(roomID string) (*RoomSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[roomID]
	return s, ok
}

// Dropped returns the room's dropped-event count, zero when no session is
// open.
func (m *SessionManager) Dropped(roomID string) int64 {
	m.mu.Lock()
	s, ok := m.sessions[roomID]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	return s.DroppedCount()
}

// Close tears the room's session down: queue cleared, combo reset, scheduler
// stopped. Returns false when no session was open.
func (m *SessionManager) Close(roomID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[roomID]
	if ok {
		delete(m.sessions, roomID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.close()
	if m.CloseHook != nil {
		m.CloseHook(roomID)
	}
	log.Printf("closed gift session for room %s", roomID)
	return true
}

// CloseAll tears down every open session, used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*RoomSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*RoomSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
