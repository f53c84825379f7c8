package fiber

// SenderTotalResponse is one leaderboard entry.
type SenderTotalResponse struct {
	Sender string `json:"sender"`
	Value  int64  `json:"value"`
}

// RoomStatsResponse is the running tally of one room session.
// @Description Room gift stats DTO
type RoomStatsResponse struct {
	RoomID          string                `json:"room_id"`
	TotalGiftsCount int64                 `json:"total_gifts_count"`
	TotalValue      int64                 `json:"total_value"`
	TopSender       string                `json:"top_sender,omitempty"`
	Senders         []SenderTotalResponse `json:"senders"`
	DroppedCount    int64                 `json:"dropped_count"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_stats_query"`
	Message string `json:"message,omitempty"`
}
