package ports

import (
	"context"

	"gift-playback-service/internal/giftplay/core/domain"
)

// GiftArchivePort persists raw gift sends for history/settlement lookups.
//
// InsertGift:
//
//	created = true,  err = nil  -> new record
//	created = false, err = nil  -> duplicate delivery (idempotent)
//	created = false, err != nil -> DB error
type GiftArchivePort interface {
	InsertGift(ctx context.Context, roomID string, e *domain.GiftEvent) (created bool, err error)
}
