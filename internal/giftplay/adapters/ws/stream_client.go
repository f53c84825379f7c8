package ws

import (
	"context"
	"fmt"
	"log"
	"time"

	"gift-playback-service/internal/giftplay/core/usecase"

	"github.com/gorilla/websocket"
)

// GiftSink receives gift sends decoded off the room stream.
type GiftSink interface {
	Execute(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error)
}

// giftFrame is one gift send as the upstream room stream emits it.
type giftFrame struct {
	Type       string `json:"type"`
	RoomID     string `json:"room_id"`
	EventID    string `json:"event_id"`
	GiftName   string `json:"gift_name"`
	IconRef    string `json:"icon_ref,omitempty"`
	Format     string `json:"format,omitempty"`
	RenderZone string `json:"render_zone,omitempty"`
	SenderName string `json:"sender_name"`
	AvatarRef  string `json:"sender_avatar_ref,omitempty"`
	Recipient  string `json:"recipient_name,omitempty"`
	Quantity   int64  `json:"quantity"`
	UnitValue  int64  `json:"unit_value"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// StreamClient subscribes to the upstream room stream and pipes every
// gift frame into the send-gift pipeline. Frames for rooms without an
// open session are dropped by the use case, not here.
type StreamClient struct {
	url  string
	sink GiftSink
}

func NewStreamClient(url string, sink GiftSink) *StreamClient {
	return &StreamClient{url: url, sink: sink}
}

// Run consumes the stream until ctx is cancelled, redialing with a flat
// backoff after connection loss.
func (s *StreamClient) Run(ctx context.Context) {
	const redialDelay = 3 * time.Second

	for {
		if err := s.consume(ctx); err != nil {
			log.Printf("room stream disconnected: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(redialDelay):
		}
	}
}

func (s *StreamClient) consume(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Unblock ReadJSON on shutdown.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var frame giftFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read gift frame: %w", err)
		}
		if frame.Type != "gift" {
			continue
		}

		if _, err := s.sink.Execute(ctx, toSendInput(frame)); err != nil {
			log.Printf("gift frame rejected (room=%s event=%s): %v", frame.RoomID, frame.EventID, err)
		}
	}
}

func toSendInput(f giftFrame) usecase.SendGiftInput {
	return usecase.SendGiftInput{
		RoomID:          f.RoomID,
		EventID:         f.EventID,
		GiftName:        f.GiftName,
		IconRef:         f.IconRef,
		Format:          f.Format,
		RenderZone:      f.RenderZone,
		SenderName:      f.SenderName,
		SenderAvatarRef: f.AvatarRef,
		RecipientName:   f.Recipient,
		Quantity:        f.Quantity,
		UnitValue:       f.UnitValue,
		DurationMS:      f.DurationMS,
	}
}
