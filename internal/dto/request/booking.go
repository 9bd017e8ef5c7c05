package request

type CreateBookingRequest struct {
	RoomID          string  `json:"room_id" validate:"required,uuid"`
	GuestName       string  `json:"guest_name" validate:"required,max=120"`
	GuestNumber     *string `json:"guest_number,omitempty" validate:"omitempty,max=32"`
	RoomCharge      float64 `json:"room_charge" validate:"gt=0"`
	CheckIn         string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	BilledToCompany bool    `json:"billed_to_company"`
	CompanyName     *string `json:"company_name,omitempty" validate:"omitempty,max=120"`
}

type GroupBookingRequest struct {
	GuestName       string           `json:"guest_name" validate:"required,max=120"`
	GuestNumber     *string          `json:"guest_number,omitempty" validate:"omitempty,max=32"`
	CheckIn         string           `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string           `json:"check_out" validate:"required,datetime=2006-01-02"`
	IsClubbed       bool             `json:"is_clubbed"`
	PrimaryRoomID   *string          `json:"primary_room_id,omitempty" validate:"omitempty,uuid"`
	BilledToCompany bool             `json:"billed_to_company"`
	CompanyName     *string          `json:"company_name,omitempty" validate:"omitempty,max=120"`
	Assignments     []RoomAssignment `json:"assignments" validate:"required,min=1,dive"`
}

type RoomAssignment struct {
	RoomID      string  `json:"room_id" validate:"required,uuid"`
	GuestName   string  `json:"guest_name" validate:"max=120"`
	GuestNumber *string `json:"guest_number,omitempty" validate:"omitempty,max=32"`
	RoomCharge  float64 `json:"room_charge" validate:"gt=0"`
}
