package postgres

import (
	"context"
	"time"

	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/ports"
)

type GiftRepository struct {
	db DB
}

func NewGiftRepository(db DB) *GiftRepository {
	return &GiftRepository{db: db}
}

var _ ports.GiftArchivePort = (*GiftRepository)(nil)

// SQL template
const insertGiftSQL = `
INSERT INTO gift_transactions (
    event_id,
    room_id,
    gift_name,
    sender_name,
    recipient_name,
    quantity,
    unit_value,
    total_value,
    format,
    render_zone,
    sent_at
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8,
    $9, $10, $11
)
ON CONFLICT (event_id) DO NOTHING;
`

func (r *GiftRepository) InsertGift(ctx context.Context, roomID string, e *domain.GiftEvent) (bool, error) {

	var recipient any
	if e.RecipientName == "" {
		recipient = nil
	} else {
		recipient = e.RecipientName
	}

	res, err := r.db.ExecContext(ctx, insertGiftSQL,
		e.ID,
		roomID,
		e.GiftName,
		e.SenderName,
		recipient,
		e.Quantity,
		e.UnitValue,
		e.TotalValue(),
		string(e.Format),
		string(e.RenderZone),
		time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}
