package usecase_test

import (
	"context"
	"errors"
	"testing"

	"gift-playback-service/internal/giftstats/core/domain"
	"gift-playback-service/internal/giftstats/core/usecase"
)

// fake store implementing StatsStorePort
type fakeStore struct {
	records  int
	lastRoom string
	snapshot *domain.RoomStats
	err      error
}

func (f *fakeStore) Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error {
	if f.err != nil {
		return f.err
	}
	f.records++
	f.lastRoom = roomID
	return nil
}

func (f *fakeStore) Snapshot(ctx context.Context, roomID string) (*domain.RoomStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastRoom = roomID
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &domain.RoomStats{RoomID: roomID}, nil
}

func (f *fakeStore) Reset(ctx context.Context, roomID string) error {
	f.lastRoom = roomID
	return f.err
}

// ------------------------------------------------------------
// RECORD
// ------------------------------------------------------------

func TestRecordGift_Success(t *testing.T) {
	store := &fakeStore{}
	uc := usecase.NewRecordGiftUseCase(store)

	if err := uc.Record(context.Background(), "room-1", "Alice", 10, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.records != 1 {
		t.Fatalf("expected 1 record, got %d", store.records)
	}
}

func TestRecordGift_Invalid(t *testing.T) {
	uc := usecase.NewRecordGiftUseCase(&fakeStore{})

	cases := []struct {
		room, sender    string
		value, quantity int64
	}{
		{"", "Alice", 10, 1},
		{"room-1", "", 10, 1},
		{"room-1", "Alice", 0, 1},
		{"room-1", "Alice", 10, 0},
	}

	for i, c := range cases {
		err := uc.Record(context.Background(), c.room, c.sender, c.value, c.quantity)
		if !errors.Is(err, usecase.ErrInvalidRecord) {
			t.Errorf("case %d: expected ErrInvalidRecord, got %v", i, err)
		}
	}
}

func TestRecordGift_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("redis down")}
	uc := usecase.NewRecordGiftUseCase(store)

	if err := uc.Record(context.Background(), "room-1", "Alice", 10, 1); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

// ------------------------------------------------------------
// SNAPSHOT
// ------------------------------------------------------------

func TestGetRoomStats_Success(t *testing.T) {
	store := &fakeStore{
		snapshot: &domain.RoomStats{
			RoomID:          "room-1",
			TotalGiftsCount: 3,
			TotalValue:      25,
			TopSender:       "X",
		},
	}
	uc := usecase.NewGetRoomStatsUseCase(store)

	stats, err := uc.Execute(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalValue != 25 || stats.TopSender != "X" {
		t.Fatalf("unexpected snapshot: %+v", stats)
	}
}

func TestGetRoomStats_EmptyRoomID(t *testing.T) {
	uc := usecase.NewGetRoomStatsUseCase(&fakeStore{})

	if _, err := uc.Execute(context.Background(), ""); !errors.Is(err, usecase.ErrInvalidStatsQuery) {
		t.Fatalf("expected ErrInvalidStatsQuery, got %v", err)
	}
}

func TestTopOf_FirstEncounteredMaxWins(t *testing.T) {
	top := domain.TopOf([]domain.SenderTotal{
		{Sender: "a", Value: 10},
		{Sender: "b", Value: 20},
		{Sender: "c", Value: 20},
	})
	if top != "b" {
		t.Fatalf("expected b, got %s", top)
	}
}
