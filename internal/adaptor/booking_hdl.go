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

type BookingHandler struct {
	service usecase.BookingService
	retries int
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, retries int, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		retries: retries,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/hotels/{hotelID}/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hotelID := chi.URLParam(r, "hotelID")
	var booked *usecase.BookedStay
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		booked, err = h.service.BookSingle(ctx, hotelID, &req)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", response.BookedStayToResponse(*booked))
}

// CreateGroupBooking handles POST /api/hotels/{hotelID}/bookings/group
func (h *BookingHandler) CreateGroupBooking(w http.ResponseWriter, r *http.Request) {
	var req request.GroupBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hotelID := chi.URLParam(r, "hotelID")
	var group *usecase.GroupBooking
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		group, err = h.service.BookGroup(ctx, hotelID, &req)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "create group booking")
		return
	}

	utils.ResponseCreated(w, "success", response.GroupBookingToResponse(group))
}
