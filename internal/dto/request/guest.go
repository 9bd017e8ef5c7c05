package request

type GuestSessionRequest struct {
	HotelID string `json:"hotel_id" validate:"required,uuid"`
	StayID  string `json:"stay_id" validate:"required,max=64"`
}
