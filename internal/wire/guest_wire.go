package wire

import (
	"hotel-pms/internal/adaptor"
	"hotel-pms/pkg/guestjwt"
	"hotel-pms/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireGuest(
	r chi.Router,
	guestHandler *adaptor.GuestHandler,
	tokens *guestjwt.Manager,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/guest/session - exchange hotel + stay ID for a guest token
	r.Post("/api/guest/session", guestHandler.CreateSession)

	// ==================== GUEST ROUTES ====================
	r.With(middleware.GuestSession(tokens, log)).Get("/api/guest/stay", guestHandler.GetStay)
}
