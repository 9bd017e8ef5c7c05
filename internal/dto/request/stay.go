package request

import "hotel-pms/internal/data/entity"

type CheckoutRequest struct {
	// Bill is optional; when absent the bill is computed from the stay.
	Bill          *entity.BillInput `json:"bill,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"max=32"`
	Force         bool              `json:"force"`
}

type DiscountRequest struct {
	Type  string  `json:"type" validate:"required,oneof=percent flat"`
	Value float64 `json:"value" validate:"gte=0"`
}

type PaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Method string  `json:"method" validate:"required,max=32"`
}

type LogChargeRequest struct {
	Service  string  `json:"service" validate:"required,max=120"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gt=0"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=255"`
}
