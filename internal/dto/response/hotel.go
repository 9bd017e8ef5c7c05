package response

import (
	"time"

	"hotel-pms/internal/data/entity"
)

type HotelResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	MaxRooms          int       `json:"max_rooms"`
	RoomCount         int       `json:"room_count"`
	GSTRate           float64   `json:"gst_rate"`
	ServiceChargeRate float64   `json:"service_charge_rate"`
	Currency          string    `json:"currency"`
	CreatedAt         time.Time `json:"created_at"`
}

// HotelToResponse never exposes the staff key hash.
func HotelToResponse(h *entity.Hotel) HotelResponse {
	return HotelResponse{
		ID:                h.ID.String(),
		Name:              h.Name,
		MaxRooms:          h.MaxRooms,
		RoomCount:         h.RoomCount,
		GSTRate:           h.GSTRate,
		ServiceChargeRate: h.ServiceChargeRate,
		Currency:          h.Currency,
		CreatedAt:         h.CreatedAt,
	}
}
