package ports

import (
	"context"

	"gift-playback-service/internal/giftplay/core/domain"
)

// RendererPort starts the visual playback of one gift event.
//
// Render returns a completion channel that is closed when the renderer
// reports the animation finished. The channel may be nil when the renderer
// has no completion signal; the scheduler then falls back to its own
// safety-net timer. A non-nil error means the event could not be rendered at
// all and the scheduler advances immediately (fail-open).
type RendererPort interface {
	Render(ctx context.Context, roomID string, e *domain.GiftEvent) (done <-chan struct{}, err error)
}
