package wire

import (
	"hotel-pms/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireHotel(r chi.Router, hotelHandler *adaptor.HotelHandler) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/hotels - register a hotel and its staff key
	r.Post("/api/hotels", hotelHandler.CreateHotel)
}
