package usecase

import (
	"context"
	"errors"

	"gift-playback-service/internal/giftstats/core/domain"
	"gift-playback-service/internal/giftstats/core/ports"
)

var ErrInvalidStatsQuery = errors.New("invalid stats query")

type GetRoomStatsUseCase struct {
	store ports.StatsStorePort
}

func NewGetRoomStatsUseCase(store ports.StatsStorePort) *GetRoomStatsUseCase {
	return &GetRoomStatsUseCase{store: store}
}

func (uc *GetRoomStatsUseCase) Execute(ctx context.Context, roomID string) (*domain.RoomStats, error) {
	if roomID == "" {
		return nil, ErrInvalidStatsQuery
	}
	return uc.store.Snapshot(ctx, roomID)
}
