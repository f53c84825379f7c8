package fiber

// SendGiftRequest is one raw gift send.
// @Description Gift send DTO
type SendGiftRequest struct {
	EventID         string `json:"event_id,omitempty"`
	GiftName        string `json:"gift_name"`
	IconRef         string `json:"icon_ref"`
	Format          string `json:"format"`
	RenderZone      string `json:"render_zone"`
	SenderName      string `json:"sender_name"`
	SenderAvatarRef string `json:"sender_avatar_ref"`
	RecipientName   string `json:"recipient_name,omitempty"`
	Quantity        int64  `json:"quantity"`
	UnitValue       int64  `json:"unit_value"`
	DurationMS      int64  `json:"duration_ms"`
}

type SendGiftResponse struct {
	EventID           string `json:"event_id"`
	EffectiveQuantity int64  `json:"effective_quantity"`
	Tier              int    `json:"tier"`
	Status            string `json:"status"` // queued | dropped
}

type SendGiftBatchRequest struct {
	Gifts []SendGiftRequest `json:"gifts"`
}

type SendGiftBatchResponse struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

type RoomStateResponse struct {
	RoomID string `json:"room_id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_gift"`
	Message string `json:"message,omitempty"`
}
