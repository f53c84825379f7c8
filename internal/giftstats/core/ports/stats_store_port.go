package ports

import (
	"context"

	"gift-playback-service/internal/giftstats/core/domain"
)

// StatsStorePort holds per-room running gift stats for the lifetime of a
// room session.
type StatsStorePort interface {
	// Record folds one raw gift send into the room's counters.
	Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error

	// Snapshot returns the room's current tally. A room with no recorded
	// sends yields a zero-valued RoomStats, not an error.
	Snapshot(ctx context.Context, roomID string) (*domain.RoomStats, error)

	// Reset discards the room's counters, called on room exit.
	Reset(ctx context.Context, roomID string) error
}
