package entity

import (
	"time"

	"github.com/google/uuid"
)

type BillItem struct {
	Label     string  `json:"label"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// FinalBill is the immutable bill stored with an archived stay. Every
// numeric field is always set.
type FinalBill struct {
	RoomCharge          BillItem   `json:"room_charge"`
	Services            []BillItem `json:"services"`
	Subtotal            float64    `json:"subtotal"`
	DiscountAmount      float64    `json:"discount_amount"`
	ServiceChargeAmount float64    `json:"service_charge_amount"`
	TaxAmount           float64    `json:"tax_amount"`
	Total               float64    `json:"total"`
	PaidAmount          float64    `json:"paid_amount"`
	Balance             float64    `json:"balance"`
	PaymentMethod       string     `json:"payment_method"`
	BilledTo            *string    `json:"billed_to,omitempty"`
}

type BillItemInput struct {
	Label     *string  `json:"label"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Amount    *float64 `json:"amount"`
}

// BillInput is a possibly incomplete bill breakdown, as supplied by a client
// at checkout. Missing fields are defaulted when a FinalBill is built.
type BillInput struct {
	RoomCharge          *BillItemInput  `json:"room_charge"`
	Services            []BillItemInput `json:"services"`
	Subtotal            *float64        `json:"subtotal"`
	DiscountAmount      *float64        `json:"discount_amount"`
	ServiceChargeAmount *float64        `json:"service_charge_amount"`
	TaxAmount           *float64        `json:"tax_amount"`
	Total               *float64        `json:"total"`
	PaidAmount          *float64        `json:"paid_amount"`
	Balance             *float64        `json:"balance"`
	PaymentMethod       *string         `json:"payment_method"`
	BilledTo            *string         `json:"billed_to"`
}

type CheckedOutStay struct {
	BaseSimple
	HotelID           uuid.UUID `db:"hotel_id"`
	RoomID            uuid.UUID `db:"room_id"`
	RoomNumber        string    `db:"room_number"`
	StayID            string    `db:"stay_id"`
	GuestName         string    `db:"guest_name"`
	GuestNumber       *string   `db:"guest_number"`
	CheckIn           time.Time `db:"check_in"`
	CheckOut          time.Time `db:"check_out"`
	CheckedOutAt      time.Time `db:"checked_out_at"`
	BilledToCompany   bool      `db:"billed_to_company"`
	CompanyName       *string   `db:"company_name"`
	GroupMasterStayID *string   `db:"group_master_stay_id"`
	Forced            bool      `db:"forced"`
	FinalBill         FinalBill `db:"final_bill"`
}
