package request

type CreateRoomRequest struct {
	Number   string `json:"number" validate:"required,max=16"`
	Category string `json:"category" validate:"max=64"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Available Cleaning"`
}

type OutOfOrderRequest struct {
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
	Reason string `json:"reason" validate:"max=255"`
}

type AvailabilityRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
