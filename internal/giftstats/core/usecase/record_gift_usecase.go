package usecase

import (
	"context"
	"errors"

	"gift-playback-service/internal/giftstats/core/ports"
)

var ErrInvalidRecord = errors.New("invalid stats record")

// RecordGiftUseCase folds raw gift sends into the room's running stats. It
// satisfies the ingest pipeline's StatsRecorder dependency.
type RecordGiftUseCase struct {
	store ports.StatsStorePort
}

func NewRecordGiftUseCase(store ports.StatsStorePort) *RecordGiftUseCase {
	return &RecordGiftUseCase{store: store}
}

func (uc *RecordGiftUseCase) Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error {
	if roomID == "" || sender == "" || unitValue <= 0 || quantity < 1 {
		return ErrInvalidRecord
	}
	return uc.store.Record(ctx, roomID, sender, unitValue, quantity)
}
