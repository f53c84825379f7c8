package fiber

import (
	"context"
	"errors"
	"net/http"

	"gift-playback-service/internal/giftplay/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type SendGiftUseCase interface {
	Execute(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error)
	ExecuteBatch(ctx context.Context, in usecase.SendGiftBatchInput) (usecase.SendGiftBatchResult, error)
}

// SessionControl is the slice of the session manager the handlers need.
type SessionControl interface {
	Open(roomID string) *usecase.RoomSession
	Get(roomID string) (*usecase.RoomSession, bool)
	Close(roomID string) bool
}

type GiftHandler struct {
	sendUC   SendGiftUseCase
	sessions SessionControl
}

func NewGiftHandler(sendUC SendGiftUseCase, sessions SessionControl) *GiftHandler {
	return &GiftHandler{sendUC: sendUC, sessions: sessions}
}

// SendGift godoc
// @Summary Send a gift into a room
// @Description Ingests one raw gift send into the room's playback pipeline
// @Tags Gifts
// @Accept json
// @Produce json
// @Param room_id path string true "Room ID"
// @Param request body SendGiftRequest true "Gift payload"
// @Success 202 {object} SendGiftResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rooms/{room_id}/gifts [post]
func (h *GiftHandler) SendGift(c *fiber.Ctx) error {
	var req SendGiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	res, err := h.sendUC.Execute(c.UserContext(), toInput(c.Params("room_id"), req))
	if err != nil {
		return h.mapError(c, err)
	}

	status := "queued"
	if !res.Accepted {
		status = "dropped"
	}

	return c.Status(http.StatusAccepted).JSON(SendGiftResponse{
		EventID:           res.EventID,
		EffectiveQuantity: res.EffectiveQuantity,
		Tier:              res.Tier,
		Status:            status,
	})
}

// SendGiftBatch godoc
// @Summary Send a combo burst
// @Description Ingests a burst of gift sends appended in order at the queue tail
// @Tags Gifts
// @Accept json
// @Produce json
// @Param room_id path string true "Room ID"
// @Param request body SendGiftBatchRequest true "Burst payload"
// @Success 202 {object} SendGiftBatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rooms/{room_id}/gifts/batch [post]
func (h *GiftHandler) SendGiftBatch(c *fiber.Ctx) error {
	var req SendGiftBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}
	if len(req.Gifts) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "gifts_list_required",
		})
	}

	in := usecase.SendGiftBatchInput{
		RoomID: c.Params("room_id"),
		Gifts:  make([]usecase.SendGiftInput, len(req.Gifts)),
	}
	for i, g := range req.Gifts {
		in.Gifts[i] = toInput(in.RoomID, g)
	}

	res, err := h.sendUC.ExecuteBatch(c.UserContext(), in)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(http.StatusAccepted).JSON(SendGiftBatchResponse{
		Accepted: res.Accepted,
		Dropped:  res.Dropped,
	})
}

// OpenRoom godoc
// @Summary Open a room gift session
// @Tags Rooms
// @Produce json
// @Param room_id path string true "Room ID"
// @Success 200 {object} RoomStateResponse
// @Router /rooms/{room_id}/open [post]
func (h *GiftHandler) OpenRoom(c *fiber.Ctx) error {
	roomID := c.Params("room_id")
	h.sessions.Open(roomID)
	return c.Status(http.StatusOK).JSON(RoomStateResponse{
		RoomID: roomID,
		Status: "open",
	})
}

// SkipPlayback godoc
// @Summary Skip the currently playing gift
// @Tags Rooms
// @Produce json
// @Param room_id path string true "Room ID"
// @Success 200 {object} RoomStateResponse
// @Failure 404 {object} ErrorResponse
// @Router /rooms/{room_id}/playback/skip [post]
func (h *GiftHandler) SkipPlayback(c *fiber.Ctx) error {
	roomID := c.Params("room_id")
	session, ok := h.sessions.Get(roomID)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "room_not_found",
		})
	}
	session.Skip()
	return c.Status(http.StatusOK).JSON(RoomStateResponse{
		RoomID: roomID,
		Status: "skipped",
	})
}

// LeaveRoom godoc
// @Summary Leave a room, tearing the gift session down
// @Tags Rooms
// @Produce json
// @Param room_id path string true "Room ID"
// @Success 200 {object} RoomStateResponse
// @Failure 404 {object} ErrorResponse
// @Router /rooms/{room_id} [delete]
func (h *GiftHandler) LeaveRoom(c *fiber.Ctx) error {
	roomID := c.Params("room_id")
	if !h.sessions.Close(roomID) {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "room_not_found",
		})
	}
	return c.Status(http.StatusOK).JSON(RoomStateResponse{
		RoomID: roomID,
		Status: "closed",
	})
}

func (h *GiftHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidGift):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_gift",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrRoomNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "room_not_found",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func toInput(roomID string, req SendGiftRequest) usecase.SendGiftInput {
	return usecase.SendGiftInput{
		RoomID:          roomID,
		EventID:         req.EventID,
		GiftName:        req.GiftName,
		IconRef:         req.IconRef,
		Format:          req.Format,
		RenderZone:      req.RenderZone,
		SenderName:      req.SenderName,
		SenderAvatarRef: req.SenderAvatarRef,
		RecipientName:   req.RecipientName,
		Quantity:        req.Quantity,
		UnitValue:       req.UnitValue,
		DurationMS:      req.DurationMS,
	}
}
