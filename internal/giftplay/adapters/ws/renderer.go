// Package ws connects the playback core to the room media gateway over
// websocket: render commands go out, gift traffic and render acks come in.
package ws

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/ports"

	"github.com/gorilla/websocket"
)

// renderFrame is pushed to the gateway for every playback start.
type renderFrame struct {
	Type       string `json:"type"`
	RoomID     string `json:"room_id"`
	EventID    string `json:"event_id"`
	GiftName   string `json:"gift_name"`
	IconRef    string `json:"icon_ref,omitempty"`
	Format     string `json:"format"`
	RenderZone string `json:"render_zone"`
	SenderName string `json:"sender_name"`
	AvatarRef  string `json:"sender_avatar_ref,omitempty"`
	Quantity   int64  `json:"quantity"`
	DurationMS int64  `json:"duration_ms"`
}

// ackFrame comes back once the gateway finished (or aborted) an animation.
type ackFrame struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
}

// ackGrace is how long past an event's planned duration a pending completion
// entry is kept before it is written off as a lost ack.
const ackGrace = 5 * time.Second

// Renderer sends render commands to the media gateway and resolves the
// completion channel when the matching render_done ack arrives. A missing
// ack is fine: the scheduler's planned-duration timer takes over, and the
// pending entry expires after a grace period so lost acks cannot pile up.
type Renderer struct {
	mu      sync.Mutex
	url     string
	grace   time.Duration
	conn    *websocket.Conn
	pending map[string]chan struct{}
	done    chan struct{}
}

var _ ports.RendererPort = (*Renderer)(nil)

func NewRenderer(url string) *Renderer {
	return &Renderer{
		url:     url,
		grace:   ackGrace,
		pending: make(map[string]chan struct{}),
	}
}

// Connect dials the gateway and starts the ack reader.
func (r *Renderer) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	r.conn = conn
	r.done = make(chan struct{})

	go r.readAcks(conn, r.done)

	return nil
}

func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil
	}

	close(r.done)

	_ = r.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	err := r.conn.Close()
	r.conn = nil

	for id, ch := range r.pending {
		close(ch)
		delete(r.pending, id)
	}
	return err
}

func (r *Renderer) Render(ctx context.Context, roomID string, e *domain.GiftEvent) (<-chan struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return nil, fmt.Errorf("renderer not connected")
	}

	frame := renderFrame{
		Type:       "render",
		RoomID:     roomID,
		EventID:    e.ID,
		GiftName:   e.GiftName,
		IconRef:    e.IconRef,
		Format:     string(e.Format),
		RenderZone: string(e.RenderZone),
		SenderName: e.SenderName,
		AvatarRef:  e.SenderAvatarRef,
		Quantity:   e.Quantity,
		DurationMS: e.PlannedDuration.Milliseconds(),
	}

	if err := r.conn.WriteJSON(frame); err != nil {
		return nil, fmt.Errorf("write render frame: %w", err)
	}

	ch := make(chan struct{})
	r.pending[e.ID] = ch

	// the scheduler gave up on this slot long before the grace runs out
	time.AfterFunc(e.PlannedDuration+r.grace, func() { r.resolve(e.ID) })

	return ch, nil
}

func (r *Renderer) readAcks(conn *websocket.Conn, done chan struct{}) {
	for {
		var ack ackFrame
		if err := conn.ReadJSON(&ack); err != nil {
			select {
			case <-done:
			default:
				log.Printf("renderer ack reader stopped: %v", err)
			}
			return
		}
		if ack.Type != "render_done" {
			continue
		}
		r.resolve(ack.EventID)
	}
}

func (r *Renderer) resolve(eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.pending[eventID]; ok {
		close(ch)
		delete(r.pending, eventID)
	}
}
