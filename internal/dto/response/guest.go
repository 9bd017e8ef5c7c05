package response

import (
	"time"

	"hotel-pms/internal/usecase"
)

type GuestSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GuestStayResponse has no room ID; guests address their stay by stay ID
// only.
type GuestStayResponse struct {
	HotelName  string              `json:"hotel_name"`
	Currency   string              `json:"currency"`
	RoomNumber string              `json:"room_number"`
	Stay       StayResponse        `json:"stay"`
	Bill       usecase.BillSummary `json:"bill"`
}

func GuestStayToResponse(g *usecase.GuestStay) GuestStayResponse {
	return GuestStayResponse{
		HotelName:  g.HotelName,
		Currency:   g.Currency,
		RoomNumber: g.RoomNumber,
		Stay:       StayToResponse(g.Stay),
		Bill:       g.Summary,
	}
}
