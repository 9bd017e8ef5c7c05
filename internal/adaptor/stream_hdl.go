package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/dto/response"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/feed"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

const streamKeepAlive = 25 * time.Second

type StreamHandler struct {
	rooms      usecase.RoomService
	subscriber feed.Subscriber
	events     *sse.Server
	log        *zap.Logger
}

func NewStreamHandler(rooms usecase.RoomService, subscriber feed.Subscriber, log *zap.Logger) *StreamHandler {
	events := sse.New()
	// every connection gets its own stream, nothing to replay
	events.AutoReplay = false

	return &StreamHandler{
		rooms:      rooms,
		subscriber: subscriber,
		events:     events,
		log:        log.With(zap.String("handler", "stream")),
	}
}

// Rooms handles GET /api/hotels/{hotelID}/rooms/stream as Server-Sent
// Events. Each event is one room with its display status derived at send
// time.
func (h *StreamHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	hotelID, err := uuid.Parse(chi.URLParam(r, "hotelID"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid hotel ID", nil)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	rooms, err := h.subscriber.Subscribe(ctx, hotelID)
	if errors.Is(err, feed.ErrDisabled) {
		utils.ResponseUnavailable(w, "Live room feed is disabled")
		return
	}
	if err != nil {
		h.log.Error("Failed to subscribe to room feed", zap.Error(err), zap.String("hotel_id", hotelID.String()))
		utils.ResponseUnavailable(w, "Live room feed unavailable")
		return
	}

	streamID := hotelID.String() + "/" + uuid.NewString()
	h.events.CreateStream(streamID)
	defer h.events.RemoveStream(streamID)

	go h.pump(ctx, streamID, rooms)

	req := r.Clone(ctx)
	query := req.URL.Query()
	query.Set("stream", streamID)
	req.URL.RawQuery = query.Encode()

	h.events.ServeHTTP(w, req)
}

// pump forwards room snapshots into the connection's stream until the
// request ends or the feed closes.
func (h *StreamHandler) pump(ctx context.Context, streamID string, rooms <-chan *entity.Room) {
	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.events.Publish(streamID, &sse.Event{Comment: []byte("keep-alive")})
		case room, ok := <-rooms:
			if !ok {
				h.events.RemoveStream(streamID)
				return
			}
			payload, err := json.Marshal(response.RoomViewToResponse(h.rooms.View(room)))
			if err != nil {
				h.log.Warn("Failed to encode room event", zap.Error(err))
				continue
			}
			h.events.Publish(streamID, &sse.Event{
				ID:    []byte(fmt.Sprintf("%s-%d", room.ID, room.Version)),
				Event: []byte("room"),
				Data:  payload,
			})
		}
	}
}
