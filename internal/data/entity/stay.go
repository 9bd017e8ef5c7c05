package entity

import "time"

type StayStatus string

const (
	StayStatusBooked    StayStatus = "Booked"
	StayStatusCheckedIn StayStatus = "Checked In"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Stay is an embedded record inside a room. It is persisted as part of the
// room document, never on its own.
type Stay struct {
	ID                string     `json:"id"`
	GuestName         string     `json:"guest_name"`
	GuestNumber       *string    `json:"guest_number,omitempty"`
	RoomCharge        float64    `json:"room_charge"`
	CheckIn           time.Time  `json:"check_in"`
	CheckOut          time.Time  `json:"check_out"`
	Status            StayStatus `json:"status"`
	PaidAmount        float64    `json:"paid_amount"`
	PaymentMethod     *string    `json:"payment_method,omitempty"`
	BilledToCompany   bool       `json:"billed_to_company"`
	CompanyName       *string    `json:"company_name,omitempty"`
	Discount          *Discount  `json:"discount,omitempty"`
	IsGroupBooking    bool       `json:"is_group_booking"`
	IsPrimaryInGroup  bool       `json:"is_primary_in_group"`
	GroupMasterStayID *string    `json:"group_master_stay_id,omitempty"`
	SettledByStayID   *string    `json:"settled_by_stay_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (s Stay) Range() DateRange {
	return DateRange{From: s.CheckIn, To: s.CheckOut}
}

// IsClubbedMember reports whether the stay is a non-primary member of a
// clubbed group and so bills onto the group master.
func (s Stay) IsClubbedMember() bool {
	return s.IsGroupBooking && !s.IsPrimaryInGroup && s.GroupMasterStayID != nil
}

func (s Stay) IsClubbedPrimary() bool {
	return s.IsGroupBooking && s.IsPrimaryInGroup
}

func (s Stay) clone() Stay {
	c := s
	c.GuestNumber = cloneString(s.GuestNumber)
	c.PaymentMethod = cloneString(s.PaymentMethod)
	c.CompanyName = cloneString(s.CompanyName)
	c.GroupMasterStayID = cloneString(s.GroupMasterStayID)
	c.SettledByStayID = cloneString(s.SettledByStayID)
	if s.Discount != nil {
		d := *s.Discount
		c.Discount = &d
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
