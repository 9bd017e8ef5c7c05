package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/feed"
	"hotel-pms/pkg/guestjwt"
	"hotel-pms/pkg/qrcode"
	"hotel-pms/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Hotel   *HotelHandler
	Room    *RoomHandler
	Booking *BookingHandler
	Stay    *StayHandler
	Billing *BillingHandler
	Guest   *GuestHandler
	Stream  *StreamHandler
}

// Options carries what the handlers need besides the services.
type Options struct {
	TxRetries  int
	PortalURL  string
	Tokens     *guestjwt.Manager
	QR         *qrcode.Generator
	Subscriber feed.Subscriber
}

func NewHandler(service *usecase.Service, opts Options, log *zap.Logger) *Handler {
	if opts.QR == nil {
		opts.QR = qrcode.NewGenerator()
	}
	if opts.Subscriber == nil {
		opts.Subscriber = feed.Nop{}
	}
	return &Handler{
		Hotel:   NewHotelHandler(service.Hotel, log),
		Room:    NewRoomHandler(service.Room, service.Hotel, opts.TxRetries, log),
		Booking: NewBookingHandler(service.Booking, opts.TxRetries, log),
		Stay:    NewStayHandler(service.Stay, service.Billing, service.Room, opts.TxRetries, log),
		Billing: NewBillingHandler(service.Billing, opts.TxRetries, log),
		Guest:   NewGuestHandler(service.Lookup, opts.Tokens, opts.QR, opts.PortalURL, log),
		Stream:  NewStreamHandler(service.Room, opts.Subscriber, log),
	}
}

// decodeJSON reads an optional body: an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleServiceError maps usecase errors onto the JSON envelope.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrInvalidOrExpiredStay):
		log.Warn(operation+" failed - invalid or expired stay",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - concurrent update",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "The room was changed by another request, please retry", nil)

	case errors.Is(err, usecase.ErrStayConflict),
		errors.Is(err, usecase.ErrCapacityReached),
		errors.Is(err, usecase.ErrRoomOccupied),
		errors.Is(err, usecase.ErrOutstandingBalance),
		errors.Is(err, usecase.ErrDuplicateRoom):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg, nil)

	case errors.Is(err, usecase.ErrPermission):
		log.Error(operation+" rejected by store",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func outcomeMessage(outcome usecase.Outcome) string {
	switch outcome {
	case usecase.OutcomeAlreadyCheckedIn:
		return "Stay was already checked in"
	case usecase.OutcomeAlreadyRemoved:
		return "Stay was already removed"
	case usecase.OutcomeAlreadyCheckedOut:
		return "Stay was already checked out"
	default:
		return "success"
	}
}
