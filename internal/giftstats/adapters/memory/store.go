package memory

import (
	"context"
	"sync"

	"gift-playback-service/internal/giftstats/core/domain"
	"gift-playback-service/internal/giftstats/core/ports"
)

type roomTally struct {
	giftsCount int64
	totalValue int64
	bySender   map[string]int64
	order      []string // senders in first-appearance order, for stable ties
}

// Store is the in-memory stats store, one tally per room. Mutations are
// mutex-guarded; producers may be concurrent.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomTally
}

var _ ports.StatsStorePort = (*Store)(nil)

func NewStore() *Store {
	return &Store{rooms: make(map[string]*roomTally)}
}

func (s *Store) Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.rooms[roomID]
	if !ok {
		t = &roomTally{bySender: make(map[string]int64)}
		s.rooms[roomID] = t
	}

	if _, seen := t.bySender[sender]; !seen {
		t.order = append(t.order, sender)
	}
	value := unitValue * quantity
	t.bySender[sender] += value
	t.giftsCount += quantity
	t.totalValue += value
	return nil
}

func (s *Store) Snapshot(ctx context.Context, roomID string) (*domain.RoomStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := &domain.RoomStats{RoomID: roomID}
	t, ok := s.rooms[roomID]
	if !ok {
		return res, nil
	}

	res.TotalGiftsCount = t.giftsCount
	res.TotalValue = t.totalValue
	res.Senders = make([]domain.SenderTotal, 0, len(t.order))
	for _, sender := range t.order {
		res.Senders = append(res.Senders, domain.SenderTotal{
			Sender: sender,
			Value:  t.bySender[sender],
		})
	}
	res.TopSender = domain.TopOf(res.Senders)
	return res, nil
}

func (s *Store) Reset(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	return nil
}
