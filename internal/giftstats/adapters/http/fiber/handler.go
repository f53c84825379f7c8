package fiber

import (
	"context"
	"errors"
	"net/http"

	"gift-playback-service/internal/giftstats/core/domain"
	"gift-playback-service/internal/giftstats/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetRoomStatsUseCase interface {
	Execute(ctx context.Context, roomID string) (*domain.RoomStats, error)
}

// DroppedReader reports how many gift events the room's queue discarded.
type DroppedReader interface {
	Dropped(roomID string) int64
}

type StatsHandler struct {
	statsUC GetRoomStatsUseCase
	dropped DroppedReader
}

func NewStatsHandler(statsUC GetRoomStatsUseCase, dropped DroppedReader) *StatsHandler {
	return &StatsHandler{statsUC: statsUC, dropped: dropped}
}

// GetRoomStats godoc
// @Summary Room gift stats
// @Description Returns the room session's running totals and top sender
// @Tags Stats
// @Produce json
// @Param room_id path string true "Room ID"
// @Success 200 {object} RoomStatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rooms/{room_id}/stats [get]
func (h *StatsHandler) GetRoomStats(c *fiber.Ctx) error {
	roomID := c.Params("room_id")

	stats, err := h.statsUC.Execute(c.UserContext(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatsQuery):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_stats_query",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := RoomStatsResponse{
		RoomID:          stats.RoomID,
		TotalGiftsCount: stats.TotalGiftsCount,
		TotalValue:      stats.TotalValue,
		TopSender:       stats.TopSender,
		Senders:         make([]SenderTotalResponse, 0, len(stats.Senders)),
	}
	for _, s := range stats.Senders {
		resp.Senders = append(resp.Senders, SenderTotalResponse{
			Sender: s.Sender,
			Value:  s.Value,
		})
	}
	if h.dropped != nil {
		resp.DroppedCount = h.dropped.Dropped(roomID)
	}

	return c.Status(http.StatusOK).JSON(resp)
}
