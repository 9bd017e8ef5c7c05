package adaptor

import (
	"net/http"

	"hotel-pms/internal/dto/request"
	"hotel-pms/internal/dto/response"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/guestjwt"
	"hotel-pms/pkg/qrcode"
	"hotel-pms/pkg/utils"

	"go.uber.org/zap"
)

type GuestHandler struct {
	lookup    usecase.LookupService
	tokens    *guestjwt.Manager
	qr        *qrcode.Generator
	portalURL string
	log       *zap.Logger
}

func NewGuestHandler(lookup usecase.LookupService, tokens *guestjwt.Manager, qr *qrcode.Generator, portalURL string, log *zap.Logger) *GuestHandler {
	return &GuestHandler{
		lookup:    lookup,
		tokens:    tokens,
		qr:        qr,
		portalURL: portalURL,
		log:       log.With(zap.String("handler", "guest")),
	}
}

// CreateSession handles POST /api/guest/session
func (h *GuestHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req request.GuestSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resolved, err := h.lookup.ResolveStay(r.Context(), req.HotelID, req.StayID)
	if err != nil {
		handleServiceError(h.log, w, err, "create guest session")
		return
	}

	token, expiresAt, err := h.tokens.Issue(resolved.HotelID.String(), resolved.Stay.ID)
	if err != nil {
		h.log.Error("Failed to sign guest token", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseCreated(w, "success", response.GuestSessionResponse{Token: token, ExpiresAt: expiresAt})
}

// GetStay handles GET /api/guest/stay (guest session). The stay is resolved
// again on every call, so a checked-out guest gets 401.
func (h *GuestHandler) GetStay(w http.ResponseWriter, r *http.Request) {
	hotelID, ok := utils.GetHotelIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	stayID, ok := utils.GetStayIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stay, err := h.lookup.GuestStay(r.Context(), hotelID.String(), stayID)
	if err != nil {
		handleServiceError(h.log, w, err, "get guest stay")
		return
	}

	utils.ResponseSuccess(w, "success", response.GuestStayToResponse(stay))
}

// StayQR handles GET /api/hotels/{hotelID}/rooms/{roomID}/stays/{stayID}/qr
// (staff). The image encodes the guest portal link for the stay.
func (h *GuestHandler) StayQR(w http.ResponseWriter, r *http.Request) {
	p := stayParamsOf(r)

	resolved, err := h.lookup.ResolveStay(r.Context(), p.hotelID, p.stayID)
	if err != nil {
		handleServiceError(h.log, w, err, "stay qr code")
		return
	}
	if resolved.RoomID.String() != p.roomID {
		utils.ResponseNotFound(w, "stay "+p.stayID+" not found on this room")
		return
	}

	png, err := h.qr.StayPNG(h.portalURL, p.hotelID, p.stayID)
	if err != nil {
		h.log.Error("Failed to render qr code", zap.Error(err), zap.String("stay_id", p.stayID))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
