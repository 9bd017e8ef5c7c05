package response

import (
	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/usecase"
)

type StayResponse struct {
	ID                string            `json:"id"`
	GuestName         string            `json:"guest_name"`
	GuestNumber       *string           `json:"guest_number,omitempty"`
	RoomCharge        float64           `json:"room_charge"`
	CheckIn           string            `json:"check_in"`
	CheckOut          string            `json:"check_out"`
	Nights            int               `json:"nights"`
	Status            entity.StayStatus `json:"status"`
	PaidAmount        float64           `json:"paid_amount"`
	PaymentMethod     *string           `json:"payment_method,omitempty"`
	BilledToCompany   bool              `json:"billed_to_company"`
	CompanyName       *string           `json:"company_name,omitempty"`
	Discount          *entity.Discount  `json:"discount,omitempty"`
	IsGroupBooking    bool              `json:"is_group_booking"`
	IsPrimaryInGroup  bool              `json:"is_primary_in_group"`
	GroupMasterStayID *string           `json:"group_master_stay_id,omitempty"`
	SettledByStayID   *string           `json:"settled_by_stay_id,omitempty"`
}

func StayToResponse(s entity.Stay) StayResponse {
	return StayResponse{
		ID:                s.ID,
		GuestName:         s.GuestName,
		GuestNumber:       s.GuestNumber,
		RoomCharge:        s.RoomCharge,
		CheckIn:           entity.FormatDate(s.CheckIn),
		CheckOut:          entity.FormatDate(s.CheckOut),
		Nights:            s.Range().Nights(),
		Status:            s.Status,
		PaidAmount:        s.PaidAmount,
		PaymentMethod:     s.PaymentMethod,
		BilledToCompany:   s.BilledToCompany,
		CompanyName:       s.CompanyName,
		Discount:          s.Discount,
		IsGroupBooking:    s.IsGroupBooking,
		IsPrimaryInGroup:  s.IsPrimaryInGroup,
		GroupMasterStayID: s.GroupMasterStayID,
		SettledByStayID:   s.SettledByStayID,
	}
}

type BookedStayResponse struct {
	RoomID     string       `json:"room_id"`
	RoomNumber string       `json:"room_number"`
	Stay       StayResponse `json:"stay"`
}

type GroupBookingResponse struct {
	GroupMasterStayID *string              `json:"group_master_stay_id,omitempty"`
	Stays             []BookedStayResponse `json:"stays"`
}

func BookedStayToResponse(b usecase.BookedStay) BookedStayResponse {
	return BookedStayResponse{
		RoomID:     b.RoomID.String(),
		RoomNumber: b.RoomNumber,
		Stay:       StayToResponse(b.Stay),
	}
}

func GroupBookingToResponse(g *usecase.GroupBooking) GroupBookingResponse {
	stays := make([]BookedStayResponse, 0, len(g.Stays))
	for _, s := range g.Stays {
		stays = append(stays, BookedStayToResponse(s))
	}
	return GroupBookingResponse{GroupMasterStayID: g.GroupMasterStayID, Stays: stays}
}

type StayResultResponse struct {
	Outcome usecase.Outcome `json:"outcome"`
	Room    *RoomResponse   `json:"room,omitempty"`
	Stay    *StayResponse   `json:"stay,omitempty"`
}

func StayResultToResponse(r *usecase.StayResult, display entity.DisplayStatus) StayResultResponse {
	resp := StayResultResponse{Outcome: r.Outcome}
	if r.Room != nil {
		room := RoomToResponse(r.Room, display)
		resp.Room = &room
	}
	if r.Stay != nil {
		stay := StayToResponse(*r.Stay)
		resp.Stay = &stay
	}
	return resp
}

type CheckoutResponse struct {
	Outcome  usecase.Outcome  `json:"outcome"`
	Archived bool             `json:"archived"`
	Forced   bool             `json:"forced"`
	Bill     entity.FinalBill `json:"bill"`
	TaskID   string           `json:"task_id,omitempty"`
	Room     *RoomResponse    `json:"room,omitempty"`
}

func CheckoutToResponse(r *usecase.CheckoutResult, display entity.DisplayStatus) CheckoutResponse {
	resp := CheckoutResponse{
		Outcome:  r.Outcome,
		Archived: r.Record != nil,
		Forced:   r.Forced,
		Bill:     r.Bill,
	}
	if r.Task != nil {
		resp.TaskID = r.Task.ID.String()
	}
	if r.Room != nil {
		room := RoomToResponse(r.Room, display)
		resp.Room = &room
	}
	return resp
}
