package adaptor

import (
	"net/http"

	"hotel-pms/internal/dto/request"
	"hotel-pms/internal/dto/response"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BillingHandler struct {
	service usecase.BillingService
	retries int
	log     *zap.Logger
}

func NewBillingHandler(service usecase.BillingService, retries int, log *zap.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		retries: retries,
		log:     log.With(zap.String("handler", "billing")),
	}
}

// LiveBill handles GET .../stays/{stayID}/bill
func (h *BillingHandler) LiveBill(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	bill, err := h.service.LiveBill(r.Context(), p.hotelID, p.roomID, p.stayID)
	if err != nil {
		handleServiceError(h.log, w, err, "live bill")
		return
	}

	utils.ResponseSuccess(w, "success", response.LiveBillToResponse(bill))
}

// Invoice handles GET .../stays/{stayID}/invoice as plain text
func (h *BillingHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	invoice, err := h.service.LiveInvoice(r.Context(), p.hotelID, p.roomID, p.stayID)
	if err != nil {
		handleServiceError(h.log, w, err, "live invoice")
		return
	}

	writeText(w, invoice)
}

// LogCharge handles POST .../stays/{stayID}/charges
func (h *BillingHandler) LogCharge(w http.ResponseWriter, r *http.Request) {
	var req request.LogChargeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	p := stayParamsOf(r)
	charge, err := h.service.LogCharge(r.Context(), p.hotelID, p.roomID, p.stayID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "log charge")
		return
	}

	utils.ResponseCreated(w, "success", response.ChargeToResponse(charge))
}

// ListCharges handles GET .../stays/{stayID}/charges
func (h *BillingHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	charges, err := h.service.ListCharges(r.Context(), p.hotelID, p.roomID, p.stayID)
	if err != nil {
		handleServiceError(h.log, w, err, "list charges")
		return
	}

	utils.ResponseSuccess(w, "success", response.ChargesToResponse(charges))
}

// History handles GET /api/hotels/{hotelID}/history?page=&per_page=
func (h *BillingHandler) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	records, total, err := h.service.History(r.Context(), chi.URLParam(r, "hotelID"), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list history")
		return
	}

	utils.ResponseSuccess(w, "success",
		response.NewPaginatedResponse(response.CheckedOutStaysToResponse(records), req.Page, req.PerPage, total))
}

// ArchivedStay handles GET /api/hotels/{hotelID}/history/{stayID}. With
// ?format=text the printed invoice is returned on its own.
func (h *BillingHandler) ArchivedStay(w http.ResponseWriter, r *http.Request) {
	record, invoice, err := h.service.ArchivedStay(r.Context(), chi.URLParam(r, "hotelID"), chi.URLParam(r, "stayID"))
	if err != nil {
		handleServiceError(h.log, w, err, "get archived stay")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		writeText(w, invoice)
		return
	}

	resp := response.CheckedOutStayToResponse(record)
	resp.Invoice = invoice
	utils.ResponseSuccess(w, "success", resp)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
