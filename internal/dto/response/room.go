package response

import (
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/usecase"
)

type OutOfOrderResponse struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

type RoomResponse struct {
	ID               string               `json:"id"`
	Number           string               `json:"number"`
	Category         string               `json:"category,omitempty"`
	Status           entity.RoomStatus    `json:"status"`
	DisplayStatus    entity.DisplayStatus `json:"display_status"`
	CurrentStayID    *string              `json:"current_stay_id,omitempty"`
	GuestName        *string              `json:"guest_name,omitempty"`
	CheckInDate      *string              `json:"check_in_date,omitempty"`
	CheckOutDate     *string              `json:"check_out_date,omitempty"`
	LastCheckoutDate *string              `json:"last_checkout_date,omitempty"`
	Stays            []StayResponse       `json:"stays"`
	OutOfOrder       []OutOfOrderResponse `json:"out_of_order"`
	Version          int64                `json:"version"`
}

func RoomToResponse(r *entity.Room, display entity.DisplayStatus) RoomResponse {
	stays := make([]StayResponse, 0, len(r.Stays))
	for _, s := range r.Stays {
		stays = append(stays, StayToResponse(s))
	}
	blocks := make([]OutOfOrderResponse, 0, len(r.OutOfOrder))
	for _, b := range r.OutOfOrder {
		blocks = append(blocks, OutOfOrderResponse{
			ID:     b.ID,
			From:   entity.FormatDate(b.From),
			To:     entity.FormatDate(b.To),
			Reason: b.Reason,
		})
	}
	return RoomResponse{
		ID:               r.ID.String(),
		Number:           r.Number,
		Category:         r.Category,
		Status:           r.Status,
		DisplayStatus:    display,
		CurrentStayID:    r.CurrentStayID,
		GuestName:        r.GuestName,
		CheckInDate:      formatDatePtr(r.CheckInDate),
		CheckOutDate:     formatDatePtr(r.CheckOutDate),
		LastCheckoutDate: formatDatePtr(r.LastCheckoutDate),
		Stays:            stays,
		OutOfOrder:       blocks,
		Version:          r.Version,
	}
}

func RoomViewToResponse(v usecase.RoomView) RoomResponse {
	return RoomToResponse(v.Room, v.DisplayStatus)
}

func RoomViewsToResponse(views []usecase.RoomView) []RoomResponse {
	out := make([]RoomResponse, 0, len(views))
	for _, v := range views {
		out = append(out, RoomViewToResponse(v))
	}
	return out
}

type ServiceTaskResponse struct {
	ID          string            `json:"id"`
	RoomID      string            `json:"room_id"`
	RoomNumber  string            `json:"room_number"`
	StayID      string            `json:"stay_id,omitempty"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Status      entity.TaskStatus `json:"status"`
	RequestedBy string            `json:"requested_by"`
	CreatedAt   string            `json:"created_at"`
}

func ServiceTaskToResponse(t *entity.ServiceTask) ServiceTaskResponse {
	return ServiceTaskResponse{
		ID:          t.ID.String(),
		RoomID:      t.RoomID.String(),
		RoomNumber:  t.RoomNumber,
		StayID:      t.StayID,
		Type:        t.Type,
		Description: t.Description,
		Status:      t.Status,
		RequestedBy: t.RequestedBy,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := entity.FormatDate(*t)
	return &s
}
