// Package render holds the fallback renderer used when no media gateway
// is configured.
package render

import (
	"context"
	"log"

	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/ports"
)

// LogRenderer logs each playback instead of driving an animation. It
// returns no completion channel, so the scheduler paces playback off the
// planned duration alone.
type LogRenderer struct{}

var _ ports.RendererPort = LogRenderer{}

func (LogRenderer) Render(ctx context.Context, roomID string, e *domain.GiftEvent) (<-chan struct{}, error) {
	log.Printf("playback room=%s gift=%s x%d sender=%s zone=%s duration=%s",
		roomID, e.GiftName, e.Quantity, e.SenderName, e.RenderZone, e.PlannedDuration)
	return nil, nil
}
