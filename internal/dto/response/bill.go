package response

import (
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/usecase"
)

type LiveBillResponse struct {
	RoomID       string              `json:"room_id"`
	RoomNumber   string              `json:"room_number"`
	Currency     string              `json:"currency"`
	Stay         StayResponse        `json:"stay"`
	Bill         usecase.BillSummary `json:"bill"`
	Consolidated []string            `json:"consolidated,omitempty"`
}

func LiveBillToResponse(b *usecase.LiveBill) LiveBillResponse {
	return LiveBillResponse{
		RoomID:       b.RoomID.String(),
		RoomNumber:   b.RoomNumber,
		Currency:     b.Currency,
		Stay:         StayToResponse(b.Stay),
		Bill:         b.Summary,
		Consolidated: b.Consolidated,
	}
}

type ChargeResponse struct {
	ID        string    `json:"id"`
	StayID    string    `json:"stay_id"`
	Service   string    `json:"service"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ChargeToResponse(c *entity.ChargeLogEntry) ChargeResponse {
	return ChargeResponse{
		ID:        c.ID.String(),
		StayID:    c.StayID,
		Service:   c.Service,
		Quantity:  c.Quantity,
		Price:     c.Price,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

func ChargesToResponse(charges []*entity.ChargeLogEntry) []ChargeResponse {
	out := make([]ChargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, ChargeToResponse(c))
	}
	return out
}

type CheckedOutStayResponse struct {
	ID                string           `json:"id"`
	RoomID            string           `json:"room_id"`
	RoomNumber        string           `json:"room_number"`
	StayID            string           `json:"stay_id"`
	GuestName         string           `json:"guest_name"`
	GuestNumber       *string          `json:"guest_number,omitempty"`
	CheckIn           string           `json:"check_in"`
	CheckOut          string           `json:"check_out"`
	CheckedOutAt      time.Time        `json:"checked_out_at"`
	BilledToCompany   bool             `json:"billed_to_company"`
	CompanyName       *string          `json:"company_name,omitempty"`
	GroupMasterStayID *string          `json:"group_master_stay_id,omitempty"`
	Forced            bool             `json:"forced"`
	FinalBill         entity.FinalBill `json:"final_bill"`
	Invoice           string           `json:"invoice,omitempty"`
}

func CheckedOutStayToResponse(c *entity.CheckedOutStay) CheckedOutStayResponse {
	return CheckedOutStayResponse{
		ID:                c.ID.String(),
		RoomID:            c.RoomID.String(),
		RoomNumber:        c.RoomNumber,
		StayID:            c.StayID,
		GuestName:         c.GuestName,
		GuestNumber:       c.GuestNumber,
		CheckIn:           entity.FormatDate(c.CheckIn),
		CheckOut:          entity.FormatDate(c.CheckOut),
		CheckedOutAt:      c.CheckedOutAt,
		BilledToCompany:   c.BilledToCompany,
		CompanyName:       c.CompanyName,
		GroupMasterStayID: c.GroupMasterStayID,
		Forced:            c.Forced,
		FinalBill:         c.FinalBill,
	}
}

func CheckedOutStaysToResponse(records []*entity.CheckedOutStay) []CheckedOutStayResponse {
	out := make([]CheckedOutStayResponse, 0, len(records))
	for _, c := range records {
		out = append(out, CheckedOutStayToResponse(c))
	}
	return out
}
