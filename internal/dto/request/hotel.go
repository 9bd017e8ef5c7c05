package request

type CreateHotelRequest struct {
	Name              string  `json:"name" validate:"required,max=120"`
	MaxRooms          int     `json:"max_rooms" validate:"gte=0"`
	GSTRate           float64 `json:"gst_rate" validate:"gte=0,lte=100"`
	ServiceChargeRate float64 `json:"service_charge_rate" validate:"gte=0,lte=100"`
	Currency          string  `json:"currency" validate:"omitempty,len=3"`
	StaffKey          string  `json:"staff_key" validate:"required,min=8"`
}
