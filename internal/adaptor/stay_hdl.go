package adaptor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/dto/request"
	"hotel-pms/internal/dto/response"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Balances below half a minor unit count as settled.
const balanceTolerance = 0.005

type StayHandler struct {
	service usecase.StayService
	billing usecase.BillingService
	rooms   usecase.RoomService
	retries int
	log     *zap.Logger
}

func NewStayHandler(service usecase.StayService, billing usecase.BillingService, rooms usecase.RoomService, retries int, log *zap.Logger) *StayHandler {
	return &StayHandler{
		service: service,
		billing: billing,
		rooms:   rooms,
		retries: retries,
		log:     log.With(zap.String("handler", "stay")),
	}
}

type stayParams struct {
	hotelID, roomID, stayID string
}

func stayParamsOf(r *http.Request) stayParams {
	return stayParams{
		hotelID: chi.URLParam(r, "hotelID"),
		roomID:  chi.URLParam(r, "roomID"),
		stayID:  chi.URLParam(r, "stayID"),
	}
}

// CheckIn handles POST .../stays/{stayID}/check-in
func (h *StayHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	var result *usecase.StayResult
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		result, err = h.service.CheckIn(ctx, p.hotelID, p.roomID, p.stayID)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "check in")
		return
	}

	utils.ResponseSuccess(w, outcomeMessage(result.Outcome), h.stayResult(result))
}

// RemoveStay handles DELETE .../stays/{stayID}
func (h *StayHandler) RemoveStay(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	var result *usecase.StayResult
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		result, err = h.service.RemoveStay(ctx, p.hotelID, p.roomID, p.stayID)
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "remove stay")
		return
	}

	utils.ResponseSuccess(w, outcomeMessage(result.Outcome), h.stayResult(result))
}

func (h *StayHandler) stayResult(result *usecase.StayResult) response.StayResultResponse {
	if result.Room == nil {
		return response.StayResultToResponse(result, "")
	}
	return response.StayResultToResponse(result, h.rooms.View(result.Room).DisplayStatus)
}

// ApplyDiscount handles POST .../stays/{stayID}/discount
func (h *StayHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req request.DiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	p := stayParamsOf(r)
	var stay *response.StayResponse
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		updated, err := h.service.ApplyDiscount(ctx, p.hotelID, p.roomID, p.stayID, &req)
		if err != nil {
			return err
		}
		resp := response.StayToResponse(*updated)
		stay = &resp
		return nil
	})
	if err != nil {
		handleServiceError(h.log, w, err, "apply discount")
		return
	}

	utils.ResponseSuccess(w, "success", stay)
}

// RecordPayment handles POST .../stays/{stayID}/payments
func (h *StayHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	p := stayParamsOf(r)
	var stay *response.StayResponse
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		updated, err := h.service.RecordPayment(ctx, p.hotelID, p.roomID, p.stayID, &req)
		if err != nil {
			return err
		}
		resp := response.StayToResponse(*updated)
		stay = &resp
		return nil
	})
	if err != nil {
		handleServiceError(h.log, w, err, "record payment")
		return
	}

	utils.ResponseSuccess(w, "success", stay)
}

// Checkout handles POST .../stays/{stayID}/checkout?force=true|false. An
// unforced checkout with an open balance is refused before the engine runs.
func (h *StayHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req request.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if raw := r.URL.Query().Get("force"); raw != "" {
		force, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "force must be true or false", nil)
			return
		}
		req.Force = force
	}

	p := stayParamsOf(r)
	if !req.Force {
		if err := h.checkBalance(r.Context(), p, &req); err != nil {
			handleServiceError(h.log, w, err, "checkout")
			return
		}
	}

	var result *usecase.CheckoutResult
	err := usecase.RetryOnConflict(r.Context(), h.retries, func(ctx context.Context) error {
		var err error
		if req.Force {
			result, err = h.service.ForceArchiveStay(ctx, p.hotelID, p.roomID, p.stayID, &req)
		} else {
			result, err = h.service.ArchiveStay(ctx, p.hotelID, p.roomID, p.stayID, &req)
		}
		return err
	})
	if err != nil {
		handleServiceError(h.log, w, err, "checkout")
		return
	}

	var display entity.DisplayStatus
	if result.Room != nil {
		display = h.rooms.View(result.Room).DisplayStatus
	}
	utils.ResponseSuccess(w, outcomeMessage(result.Outcome), response.CheckoutToResponse(result, display))
}

func (h *StayHandler) checkBalance(ctx context.Context, p stayParams, req *request.CheckoutRequest) error {
	var balance float64
	if req.Bill != nil {
		balance = usecase.NewFinalBill(*req.Bill).Balance
	} else {
		bill, err := h.billing.LiveBill(ctx, p.hotelID, p.roomID, p.stayID)
		if errors.Is(err, usecase.ErrNotFound) {
			// gone already; let the checkout report the outcome
			return nil
		}
		if err != nil {
			return err
		}
		balance = bill.Summary.Balance
	}

	if balance > balanceTolerance {
		return fmt.Errorf("stay %s owes %.2f: %w", p.stayID, balance, usecase.ErrOutstandingBalance)
	}
	return nil
}
