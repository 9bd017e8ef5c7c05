package adaptor

import (
	"context"
	"net/http"

	"hotel-pms/internal/dto/request"
	"hotel-pms/internal/dto/response"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RoomHandler struct {
	service usecase.RoomService
	hotels  usecase.HotelService
	retries int
	log     *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, hotels usecase.HotelService, retries int, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		hotels:  hotels,
		retries: retries,
		log:     log.With(zap.String("handler", "room")),
	}
}

// ListRooms handles GET /api/hotels/{hotelID}/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		handleServiceError(h.log, w, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", response.RoomViewsToResponse(rooms))
}

// GetRoom handles GET /api/hotels/{hotelID}/rooms/{roomID}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoom(r.Context(), chi.URLParam(r, "hotelID"), chi.URLParam(r, "roomID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", response.RoomViewToResponse(*room))
}

// CreateRoom handles POST /api/hotels/{hotelID}/rooms. Capacity is checked
// here, before the engine is asked to add the room.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	hotelID := chi.URLParam(r, "hotelID")

	var req request.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.hotels.EnsureCapacity(r.Context(), hotelID); err != nil {
		handleServiceError(h.log, w, err, "create room")
		return
	}

	var room *usecase.RoomView
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		room, err = h.service.CreateRoom(ctx, hotelID, &req)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "create room")
		return
	}

	utils.ResponseCreated(w, "success", response.RoomViewToResponse(*room))
}

// DeleteRoom handles DELETE /api/hotels/{hotelID}/rooms/{roomID}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	hotelID, roomID := chi.URLParam(r, "hotelID"), chi.URLParam(r, "roomID")

	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		return h.service.DeleteRoom(ctx, hotelID, roomID)
	})
	if err != nil {
		handleServiceError(h.log, w, err, "delete room")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// UpdateStatus handles PATCH /api/hotels/{hotelID}/rooms/{roomID}/status
func (h *RoomHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateRoomStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	h.mutate(w, r, "update room status", func(ctx context.Context, hotelID, roomID string) (*usecase.RoomView, error) {
		return h.service.UpdateStatus(ctx, hotelID, roomID, &req)
	})
}

// AddOutOfOrder handles POST /api/hotels/{hotelID}/rooms/{roomID}/out-of-order
func (h *RoomHandler) AddOutOfOrder(w http.ResponseWriter, r *http.Request) {
	var req request.OutOfOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	h.mutate(w, r, "add out-of-order block", func(ctx context.Context, hotelID, roomID string) (*usecase.RoomView, error) {
		return h.service.AddOutOfOrder(ctx, hotelID, roomID, &req)
	})
}

// RemoveOutOfOrder handles DELETE /api/hotels/{hotelID}/rooms/{roomID}/out-of-order/{blockID}
func (h *RoomHandler) RemoveOutOfOrder(w http.ResponseWriter, r *http.Request) {
	blockID := chi.URLParam(r, "blockID")

	h.mutate(w, r, "remove out-of-order block", func(ctx context.Context, hotelID, roomID string) (*usecase.RoomView, error) {
		return h.service.RemoveOutOfOrder(ctx, hotelID, roomID, blockID)
	})
}

func (h *RoomHandler) mutate(w http.ResponseWriter, r *http.Request, operation string, fn func(ctx context.Context, hotelID, roomID string) (*usecase.RoomView, error)) {
	hotelID, roomID := chi.URLParam(r, "hotelID"), chi.URLParam(r, "roomID")

	var room *usecase.RoomView
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		room, err = fn(ctx, hotelID, roomID)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", response.RoomViewToResponse(*room))
}

// Availability handles GET /api/hotels/{hotelID}/availability?from=&to=
func (h *RoomHandler) Availability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.AvailabilityRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rooms, err := h.service.AvailableRooms(r.Context(), chi.URLParam(r, "hotelID"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.RoomViewsToResponse(rooms))
}

// ListTasks handles GET /api/hotels/{hotelID}/tasks?status=
func (h *RoomHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListTasks(r.Context(), chi.URLParam(r, "hotelID"), r.URL.Query().Get("status"))
	if err != nil {
		handleServiceError(h.log, w, err, "list tasks")
		return
	}

	out := make([]response.ServiceTaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, response.ServiceTaskToResponse(t))
	}
	utils.ResponseSuccess(w, "success", out)
}
