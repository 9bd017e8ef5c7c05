package wire

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-pms/internal/data/repository/memory"
	"hotel-pms/pkg/feed"
	"hotel-pms/pkg/metrics"
	"hotel-pms/pkg/middleware"
	"hotel-pms/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const staffKey = "front-desk-key"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{Name: "hotel-pms", TxRetries: 1},
		Guest:   utils.GuestConfig{JWTSecret: "test-secret", ExpiryHours: 1, PortalURL: "https://guest.example.com/portal"},
		Metrics: utils.MetricsConfig{Namespace: "hotel_pms"},
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
}

func newTestAPI(t *testing.T, deps Deps) *testAPI {
	t.Helper()
	if deps.Clock == nil {
		deps.Clock = fixedClock
	}
	app := Wiring(memory.NewRepository(zap.NewNop()), testConfig(), deps, zap.NewNop())
	return &testAPI{t: t, handler: app.Router}
}

func (a *testAPI) raw(method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) call(method, path, key string, body any) (int, envelope) {
	a.t.Helper()
	headers := map[string]string{}
	if key != "" {
		headers[middleware.HotelKeyHeader] = key
	}
	rec := a.raw(method, path, headers, body)
	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idData struct {
	ID string `json:"id"`
}

func (a *testAPI) createHotel() string {
	a.t.Helper()
	code, env := a.call(http.MethodPost, "/api/hotels", "", map[string]any{
		"name":                "Seaside",
		"gst_rate":            18,
		"service_charge_rate": 10,
		"staff_key":           staffKey,
	})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[idData](a.t, env.Data).ID
}

func (a *testAPI) createRoom(hotelID, number string) string {
	a.t.Helper()
	code, env := a.call(http.MethodPost, "/api/hotels/"+hotelID+"/rooms", staffKey, map[string]any{"number": number})
	require.Equal(a.t, http.StatusCreated, code, env.Message)
	return decode[idData](a.t, env.Data).ID
}

func TestStaffRoutesRequireHotelKey(t *testing.T) {
	api := newTestAPI(t, Deps{})
	hotelID := api.createHotel()

	code, _ := api.call(http.MethodGet, "/api/hotels/"+hotelID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.call(http.MethodGet, "/api/hotels/"+hotelID, "wrong-key-123", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.call(http.MethodGet, "/api/hotels/not-a-uuid/rooms", staffKey, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := api.call(http.MethodGet, "/api/hotels/"+hotelID, staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	hotel := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Seaside", hotel["name"])
	assert.Equal(t, "INR", hotel["currency"])
	assert.NotContains(t, string(env.Data), "key")
}

func TestCreateHotel_Validation(t *testing.T) {
	api := newTestAPI(t, Deps{})

	code, env := api.call(http.MethodPost, "/api/hotels", "", map[string]any{"name": "", "staff_key": "short"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", env.Message)
	errs := decode[map[string]string](t, env.Errors)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "staff_key")
}

func TestRoomCapacityAndConflicts(t *testing.T) {
	api := newTestAPI(t, Deps{})
	code, env := api.call(http.MethodPost, "/api/hotels", "", map[string]any{
		"name": "Tiny", "max_rooms": 1, "staff_key": staffKey,
	})
	require.Equal(t, http.StatusCreated, code)
	hotelID := decode[idData](t, env.Data).ID

	roomID := api.createRoom(hotelID, "101")
	code, _ = api.call(http.MethodPost, "/api/hotels/"+hotelID+"/rooms", staffKey, map[string]any{"number": "102"})
	assert.Equal(t, http.StatusConflict, code)

	booking := map[string]any{
		"room_id": roomID, "guest_name": "Asha", "room_charge": 1000,
		"check_in": "2024-03-10", "check_out": "2024-03-12",
	}
	code, _ = api.call(http.MethodPost, "/api/hotels/"+hotelID+"/bookings", staffKey, booking)
	require.Equal(t, http.StatusCreated, code)
	code, env = api.call(http.MethodPost, "/api/hotels/"+hotelID+"/bookings", staffKey, booking)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Status)

	code, env = api.call(http.MethodGet, "/api/hotels/"+hotelID+"/availability?from=2024-03-12&to=2024-03-13", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	code, _ = api.call(http.MethodGet, "/api/hotels/"+hotelID+"/rooms/"+roomID+"/stays/101-nope00/bill", staffKey, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStayLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t, Deps{})
	hotelID := api.createHotel()
	roomID := api.createRoom(hotelID, "101")
	base := "/api/hotels/" + hotelID

	code, env := api.call(http.MethodPost, base+"/bookings", staffKey, map[string]any{
		"room_id": roomID, "guest_name": "Asha", "room_charge": 1000,
		"check_in": "2024-03-10", "check_out": "2024-03-12",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	booked := decode[struct {
		Stay struct {
			ID     string `json:"id"`
			Nights int    `json:"nights"`
		} `json:"stay"`
	}](t, env.Data)
	stayID := booked.Stay.ID
	assert.Equal(t, 2, booked.Stay.Nights)
	stayPath := base + "/rooms/" + roomID + "/stays/" + stayID

	code, env = api.call(http.MethodGet, base+"/rooms/"+roomID, staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Waiting for Check-in", decode[map[string]any](t, env.Data)["display_status"])

	code, env = api.call(http.MethodPost, stayPath+"/check-in", staffKey, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, "success", env.Message)
	code, env = api.call(http.MethodPost, stayPath+"/check-in", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Stay was already checked in", env.Message)

	code, _ = api.call(http.MethodPost, stayPath+"/charges", staffKey, map[string]any{"service": "Laundry", "price": 500})
	require.Equal(t, http.StatusCreated, code)

	code, env = api.call(http.MethodGet, stayPath+"/bill", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	bill := decode[struct {
		Bill struct {
			Total   float64 `json:"total"`
			Balance float64 `json:"balance"`
		} `json:"bill"`
	}](t, env.Data)
	assert.InDelta(t, 3200, bill.Bill.Total, 1e-9)

	code, env = api.call(http.MethodPost, stayPath+"/checkout", staffKey, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "outstanding balance")

	// guest portal
	code, env = api.call(http.MethodPost, "/api/guest/session", "", map[string]any{"hotel_id": hotelID, "stay_id": stayID})
	require.Equal(t, http.StatusCreated, code, env.Message)
	token := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
	require.NotEmpty(t, token)

	rec := api.raw(http.MethodGet, "/api/guest/stay", map[string]string{"Authorization": "Bearer " + token}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), roomID)
	assert.Contains(t, rec.Body.String(), "Seaside")

	rec = api.raw(http.MethodGet, stayPath+"/qr", map[string]string{middleware.HotelKeyHeader: staffKey}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = api.raw(http.MethodGet, stayPath+"/invoice", map[string]string{middleware.HotelKeyHeader: staffKey}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Laundry")

	code, _ = api.call(http.MethodPost, stayPath+"/payments", staffKey, map[string]any{"amount": 3200, "method": "Card"})
	require.Equal(t, http.StatusOK, code)

	code, env = api.call(http.MethodPost, stayPath+"/checkout", staffKey, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	checkout := decode[struct {
		Archived bool   `json:"archived"`
		TaskID   string `json:"task_id"`
		Room     struct {
			Status        string `json:"status"`
			DisplayStatus string `json:"display_status"`
		} `json:"room"`
	}](t, env.Data)
	assert.True(t, checkout.Archived)
	assert.NotEmpty(t, checkout.TaskID)
	assert.Equal(t, "Cleaning", checkout.Room.Status)
	assert.Equal(t, "Cleaning", checkout.Room.DisplayStatus)

	code, env = api.call(http.MethodPost, stayPath+"/checkout", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Stay was already checked out", env.Message)

	rec = api.raw(http.MethodGet, "/api/guest/stay", map[string]string{"Authorization": "Bearer " + token}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, env = api.call(http.MethodGet, base+"/history?page=1&per_page=5", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), stayID)

	rec = api.raw(http.MethodGet, base+"/history/"+stayID+"?format=text", map[string]string{middleware.HotelKeyHeader: staffKey}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "INVOICE  Seaside"))

	code, env = api.call(http.MethodGet, base+"/tasks?status=Pending", staffKey, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)
}

func TestForcedCheckoutSkipsBalance(t *testing.T) {
	api := newTestAPI(t, Deps{})
	hotelID := api.createHotel()
	roomID := api.createRoom(hotelID, "101")
	base := "/api/hotels/" + hotelID

	_, env := api.call(http.MethodPost, base+"/bookings", staffKey, map[string]any{
		"room_id": roomID, "guest_name": "Asha", "room_charge": 1000,
		"check_in": "2024-03-10", "check_out": "2024-03-11",
	})
	stayID := decode[struct {
		Stay idData `json:"stay"`
	}](t, env.Data).Stay.ID
	stayPath := base + "/rooms/" + roomID + "/stays/" + stayID
	code, _ := api.call(http.MethodPost, stayPath+"/check-in", staffKey, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.call(http.MethodPost, stayPath+"/checkout?force=maybe", staffKey, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = api.call(http.MethodPost, stayPath+"/checkout?force=true", staffKey, map[string]any{"payment_method": "Cash"})
	require.Equal(t, http.StatusOK, code, env.Message)
	result := decode[struct {
		Forced bool `json:"forced"`
		Bill   struct {
			Balance       float64 `json:"balance"`
			PaymentMethod string  `json:"payment_method"`
		} `json:"bill"`
	}](t, env.Data)
	assert.True(t, result.Forced)
	assert.InDelta(t, 1280, result.Bill.Balance, 1e-9)
	assert.Equal(t, "Cash", result.Bill.PaymentMethod)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, Deps{Metrics: metrics.New("hotel_pms")})
	api.createHotel()

	rec := api.raw(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.raw(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hotel_pms_http_requests_total{method="POST",route="/api/hotels",status="201"} 1`)
}

func TestRoomStreamDisabledWithoutFeed(t *testing.T) {
	api := newTestAPI(t, Deps{})
	hotelID := api.createHotel()

	code, _ := api.call(http.MethodGet, "/api/hotels/"+hotelID+"/rooms/stream", staffKey, nil)

	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestRoomStreamDeliversUpdates(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New("hotel_pms")
	api := newTestAPI(t, Deps{Metrics: m, Feed: feed.NewRedisFeed(client, m, zap.NewNop())})
	hotelID := api.createHotel()
	roomID := api.createRoom(hotelID, "101")

	server := httptest.NewServer(api.handler)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/hotels/"+hotelID+"/rooms/stream", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.HotelKeyHeader, staffKey)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	code, _ := api.call(http.MethodPatch, "/api/hotels/"+hotelID+"/rooms/"+roomID+"/status", staffKey, map[string]any{"status": "Cleaning"})
	require.Equal(t, http.StatusOK, code)

	reader := bufio.NewReader(resp.Body)
	var event, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.TrimSpace(line) == "" && data != "" {
			break
		}
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}

	assert.Equal(t, "room", event)
	room := decode[map[string]any](t, json.RawMessage(data))
	assert.Equal(t, roomID, room["id"])
	assert.Equal(t, "Cleaning", room["status"])
}
