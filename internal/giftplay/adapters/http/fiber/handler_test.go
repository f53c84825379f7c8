package fiber_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "gift-playback-service/internal/giftplay/adapters/http/fiber"
	"gift-playback-service/internal/giftplay/core/domain"
	"gift-playback-service/internal/giftplay/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeSendGiftUseCase struct {
	ExecuteFn      func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error)
	ExecuteBatchFn func(ctx context.Context, in usecase.SendGiftBatchInput) (usecase.SendGiftBatchResult, error)
	lastInput      usecase.SendGiftInput
}

func (f *fakeSendGiftUseCase) Execute(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return usecase.SendGiftResult{EventID: "ev-1", Accepted: true}, nil
}

func (f *fakeSendGiftUseCase) ExecuteBatch(ctx context.Context, in usecase.SendGiftBatchInput) (usecase.SendGiftBatchResult, error) {
	if f.ExecuteBatchFn != nil {
		return f.ExecuteBatchFn(ctx, in)
	}
	return usecase.SendGiftBatchResult{Accepted: len(in.Gifts)}, nil
}

type nopRenderer struct{}

func (nopRenderer) Render(ctx context.Context, roomID string, e *domain.GiftEvent) (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)
	return ch, nil
}

func newSessions(t *testing.T) *usecase.SessionManager {
	t.Helper()
	mgr := usecase.NewSessionManager(nopRenderer{}, usecase.SessionConfig{
		ComboWindow:      3 * time.Second,
		TransitionBuffer: 10 * time.Millisecond,
		QueueCapacity:    16,
	})
	t.Cleanup(mgr.CloseAll)
	return mgr
}

func setupTestApp(uc httpadapter.SendGiftUseCase, sessions httpadapter.SessionControl) *fiber.App {
	app := fiber.New()
	h := httpadapter.NewGiftHandler(uc, sessions)

	app.Post("/rooms/:room_id/gifts", h.SendGift)
	app.Post("/rooms/:room_id/gifts/batch", h.SendGiftBatch)
	app.Post("/rooms/:room_id/open", h.OpenRoom)
	app.Post("/rooms/:room_id/playback/skip", h.SkipPlayback)
	app.Delete("/rooms/:room_id", h.LeaveRoom)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

// ------------------------------------------------------------
// SEND GIFT
// ------------------------------------------------------------

func TestSendGift_Accepted(t *testing.T) {
	fakeUC := &fakeSendGiftUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
			return usecase.SendGiftResult{
				EventID:           "ev-1",
				EffectiveQuantity: 3,
				Tier:              2,
				Accepted:          true,
			}, nil
		},
	}
	app := setupTestApp(fakeUC, newSessions(t))

	resp, body := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts", SendGiftBody())

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d (body: %s)", resp.StatusCode, string(body))
	}

	var got httpadapter.SendGiftResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if got.Status != "queued" || got.EffectiveQuantity != 3 || got.Tier != 2 {
		t.Errorf("unexpected response: %+v", got)
	}
	if fakeUC.lastInput.RoomID != "room-1" {
		t.Errorf("expected room id from path, got %q", fakeUC.lastInput.RoomID)
	}
}

func SendGiftBody() httpadapter.SendGiftRequest {
	return httpadapter.SendGiftRequest{
		GiftName:   "Rose",
		SenderName: "Alice",
		Quantity:   1,
		UnitValue:  10,
		DurationMS: 1500,
	}
}

func TestSendGift_DroppedStatus(t *testing.T) {
	fakeUC := &fakeSendGiftUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
			return usecase.SendGiftResult{EventID: "ev-1", Accepted: false}, nil
		},
	}
	app := setupTestApp(fakeUC, newSessions(t))

	resp, body := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts", SendGiftBody())
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.StatusCode)
	}

	var got httpadapter.SendGiftResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if got.Status != "dropped" {
		t.Errorf("expected status=dropped, got %s", got.Status)
	}
}

func TestSendGift_InvalidJSON(t *testing.T) {
	app := setupTestApp(&fakeSendGiftUseCase{}, newSessions(t))

	req := httptest.NewRequest(http.MethodPost, "/rooms/room-1/gifts", bytes.NewBufferString(`{"gift_name":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestSendGift_ValidationError(t *testing.T) {
	fakeUC := &fakeSendGiftUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
			return usecase.SendGiftResult{}, usecase.ErrInvalidGift
		},
	}
	app := setupTestApp(fakeUC, newSessions(t))

	resp, body := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts", SendGiftBody())
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "invalid_gift" {
		t.Errorf("expected error=invalid_gift, got %v", respJSON["error"])
	}
}

func TestSendGift_RoomNotFound(t *testing.T) {
	fakeUC := &fakeSendGiftUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
			return usecase.SendGiftResult{}, usecase.ErrRoomNotFound
		},
	}
	app := setupTestApp(fakeUC, newSessions(t))

	resp, _ := doRequest(t, app, http.MethodPost, "/rooms/ghost/gifts", SendGiftBody())
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestSendGift_InternalError(t *testing.T) {
	fakeUC := &fakeSendGiftUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.SendGiftInput) (usecase.SendGiftResult, error) {
			return usecase.SendGiftResult{}, errors.New("boom")
		},
	}
	app := setupTestApp(fakeUC, newSessions(t))

	resp, _ := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts", SendGiftBody())
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// BATCH
// ------------------------------------------------------------

func TestSendGiftBatch_Accepted(t *testing.T) {
	app := setupTestApp(&fakeSendGiftUseCase{}, newSessions(t))

	resp, body := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts/batch", httpadapter.SendGiftBatchRequest{
		Gifts: []httpadapter.SendGiftRequest{SendGiftBody(), SendGiftBody()},
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d (body: %s)", resp.StatusCode, string(body))
	}

	var got httpadapter.SendGiftBatchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if got.Accepted != 2 {
		t.Errorf("expected accepted=2, got %d", got.Accepted)
	}
}

func TestSendGiftBatch_EmptyList(t *testing.T) {
	app := setupTestApp(&fakeSendGiftUseCase{}, newSessions(t))

	resp, body := doRequest(t, app, http.MethodPost, "/rooms/room-1/gifts/batch", httpadapter.SendGiftBatchRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "gifts_list_required" {
		t.Errorf("expected error=gifts_list_required, got %v", respJSON["error"])
	}
}

// ------------------------------------------------------------
// ROOM LIFECYCLE
// ------------------------------------------------------------

func TestOpenSkipLeaveRoom(t *testing.T) {
	sessions := newSessions(t)
	app := setupTestApp(&fakeSendGiftUseCase{}, sessions)

	resp, _ := doRequest(t, app, http.MethodPost, "/rooms/room-1/open", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open: expected 200, got %d", resp.StatusCode)
	}
	if _, ok := sessions.Get("room-1"); !ok {
		t.Fatal("expected session to be open")
	}

	resp, _ = doRequest(t, app, http.MethodPost, "/rooms/room-1/playback/skip", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skip: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, http.MethodDelete, "/rooms/room-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leave: expected 200, got %d", resp.StatusCode)
	}
	if _, ok := sessions.Get("room-1"); ok {
		t.Fatal("expected session to be closed")
	}
}

func TestSkipAndLeave_UnknownRoom(t *testing.T) {
	app := setupTestApp(&fakeSendGiftUseCase{}, newSessions(t))

	resp, _ := doRequest(t, app, http.MethodPost, "/rooms/ghost/playback/skip", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("skip: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, http.MethodDelete, "/rooms/ghost", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("leave: expected 404, got %d", resp.StatusCode)
	}
}
