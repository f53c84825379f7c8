package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/ports"
	"gift-playback-service/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrInvalidGift  = errors.New("invalid gift")
	ErrRoomNotFound = errors.New("room session not open")
)

// StatsRecorder folds a raw gift send into the room's running stats.
type StatsRecorder interface {
	Record(ctx context.Context, roomID, sender string, unitValue, quantity int64) error
}

// SendGiftUseCase runs the ingest pipeline for one raw gift send:
// validate -> record raw stats -> archive -> combo merge -> classify ->
// submit to the room scheduler.
//
// Stats and archive see the raw stream before combo merging; the queue sees
// the merged event.
type SendGiftUseCase struct {
	sessions *SessionManager
	archive  ports.GiftArchivePort
	stats    StatsRecorder
}

func NewSendGiftUseCase(sessions *SessionManager, archive ports.GiftArchivePort, stats StatsRecorder) *SendGiftUseCase {
	return &SendGiftUseCase{
		sessions: sessions,
		archive:  archive,
		stats:    stats,
	}
}

type SendGiftInput struct {
	RoomID          string
	EventID         string
	GiftName        string
	IconRef         string
	Format          string
	RenderZone      string
	SenderName      string
	SenderAvatarRef string
	RecipientName   string
	Quantity        int64
	UnitValue       int64
	DurationMS      int64
}

type SendGiftResult struct {
	EventID           string
	EffectiveQuantity int64
	Tier              int
	Accepted          bool
}

func (uc *SendGiftUseCase) Execute(ctx context.Context, in SendGiftInput) (SendGiftResult, error) {
	var res SendGiftResult

	e, err := uc.buildEvent(in)
	if err != nil {
		return res, err
	}

	session, ok := uc.sessions.Get(in.RoomID)
	if !ok {
		return res, ErrRoomNotFound
	}

	metrics.GiftsReceived.WithLabelValues(in.RoomID).Inc()

	uc.recordRaw(ctx, in.RoomID, e)

	effective := session.combo.Process(e)
	res.EventID = e.ID
	res.EffectiveQuantity = effective.Quantity
	res.Tier = domain.TierFor(effective.TotalValue())
	res.Accepted = session.scheduler.Submit(effective)

	if !res.Accepted {
		metrics.GiftsDropped.WithLabelValues(in.RoomID).Inc()
	}
	metrics.QueueDepth.WithLabelValues(in.RoomID).Set(float64(session.QueueDepth()))

	return res, nil
}

type SendGiftBatchInput struct {
	RoomID string
	Gifts  []SendGiftInput
}

type SendGiftBatchResult struct {
	Accepted int
	Dropped  int
}

// ExecuteBatch ingests a combo burst. Burst entries bypass the combo
// aggregator (the burst is already one combo) and are appended at the tail
// in order, never jumping the queue.
func (uc *SendGiftUseCase) ExecuteBatch(ctx context.Context, in SendGiftBatchInput) (SendGiftBatchResult, error) {
	var res SendGiftBatchResult

	if len(in.Gifts) == 0 {
		return res, ErrInvalidGift
	}

	events := make([]*domain.GiftEvent, 0, len(in.Gifts))
	for _, g := range in.Gifts {
		g.RoomID = in.RoomID
		e, err := uc.buildEvent(g)
		if err != nil {
			return res, err
		}
		events = append(events, e)
	}

	session, ok := uc.sessions.Get(in.RoomID)
	if !ok {
		return res, ErrRoomNotFound
	}

	for _, e := range events {
		metrics.GiftsReceived.WithLabelValues(in.RoomID).Inc()
		uc.recordRaw(ctx, in.RoomID, e)
	}

	res.Accepted = session.scheduler.SubmitBatch(events)
	res.Dropped = len(events) - res.Accepted
	if res.Dropped > 0 {
		metrics.GiftsDropped.WithLabelValues(in.RoomID).Add(float64(res.Dropped))
	}
	metrics.QueueDepth.WithLabelValues(in.RoomID).Set(float64(session.QueueDepth()))

	return res, nil
}

func (uc *SendGiftUseCase) buildEvent(in SendGiftInput) (*domain.GiftEvent, error) {
	if in.RoomID == "" || in.GiftName == "" || in.SenderName == "" {
		return nil, ErrInvalidGift
	}
	if in.Quantity < 1 || in.UnitValue <= 0 {
		return nil, ErrInvalidGift
	}

	format := domain.GiftFormat(in.Format)
	if in.Format == "" {
		format = domain.FormatStatic
	} else if !domain.ValidFormat(format) {
		return nil, ErrInvalidGift
	}

	zone := domain.RenderZone(in.RenderZone)
	if in.RenderZone == "" {
		zone = domain.ZoneBanner
	} else if !domain.ValidRenderZone(zone) {
		return nil, ErrInvalidGift
	}

	id := in.EventID
	if id == "" {
		id = uuid.New().String()
	}

	duration := time.Duration(in.DurationMS) * time.Millisecond
	if duration <= 0 {
		duration = 2 * time.Second
	}

	return &domain.GiftEvent{
		ID:              id,
		GiftName:        in.GiftName,
		IconRef:         in.IconRef,
		Format:          format,
		RenderZone:      zone,
		SenderName:      in.SenderName,
		SenderAvatarRef: in.SenderAvatarRef,
		RecipientName:   in.RecipientName,
		Quantity:        in.Quantity,
		UnitValue:       in.UnitValue,
		PlannedDuration: duration,
	}, nil
}

// recordRaw folds the raw send into stats and the archive. Both are
// best-effort: the visual pipeline must not stall on storage trouble.
func (uc *SendGiftUseCase) recordRaw(ctx context.Context, roomID string, e *domain.GiftEvent) {
	if uc.stats != nil {
		if err := uc.stats.Record(ctx, roomID, e.SenderName, e.UnitValue, e.Quantity); err != nil {
			log.Printf("stats record failed for room %s: %v", roomID, err)
		}
	}
	if uc.archive != nil {
		if _, err := uc.archive.InsertGift(ctx, roomID, e); err != nil {
			log.Printf("gift archive insert failed for room %s: %v", roomID, err)
		}
	}
}
