package entity

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomStatusAvailable         RoomStatus = "Available"
	RoomStatusWaitingForCheckIn RoomStatus = "Waiting for Check-in"
	RoomStatusReserved          RoomStatus = "Reserved"
	RoomStatusOccupied          RoomStatus = "Occupied"
	RoomStatusCleaning          RoomStatus = "Cleaning"
	RoomStatusOutOfOrder        RoomStatus = "Out of Order"
)

// DisplayStatus is what the front desk sees. It is derived, never stored.
type DisplayStatus string

const (
	DisplayAvailable         DisplayStatus = "Available"
	DisplayWaitingForCheckIn DisplayStatus = "Waiting for Check-in"
	DisplayReserved          DisplayStatus = "Reserved"
	DisplayOccupied          DisplayStatus = "Occupied"
	DisplayCleaning          DisplayStatus = "Cleaning"
	DisplayOutOfOrder        DisplayStatus = "Out of Order"
)

var ErrMirrorMismatch = errors.New("room occupancy mirrors out of sync")

type OutOfOrderBlock struct {
	ID     string    `json:"id"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Reason string    `json:"reason"`
}

func (b OutOfOrderBlock) Range() DateRange {
	return DateRange{From: b.From, To: b.To}
}

type Room struct {
	BaseNoDelete
	HotelID          uuid.UUID         `db:"hotel_id"`
	Number           string            `db:"number"`
	Category         string            `db:"category"`
	Status           RoomStatus        `db:"status"`
	Stays            []Stay            `db:"stays"`
	OutOfOrder       []OutOfOrderBlock `db:"out_of_order"`
	CurrentStayID    *string           `db:"current_stay_id"`
	GuestName        *string           `db:"guest_name"`
	CheckInDate      *time.Time        `db:"check_in_date"`
	CheckOutDate     *time.Time        `db:"check_out_date"`
	LastCheckoutDate *time.Time        `db:"last_checkout_date"`
	Version          int64             `db:"version"`
}

func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusWaitingForCheckIn, RoomStatusReserved,
		RoomStatusOccupied, RoomStatusCleaning, RoomStatusOutOfOrder:
		return true
	}
	return false
}

func (r *Room) FindStay(stayID string) *Stay {
	for i := range r.Stays {
		if r.Stays[i].ID == stayID {
			return &r.Stays[i]
		}
	}
	return nil
}

// Conflicts reports whether rng overlaps any stay other than excludeStayID
// or any out-of-order block on the room.
func (r *Room) Conflicts(rng DateRange, excludeStayID string) bool {
	for _, s := range r.Stays {
		if s.ID == excludeStayID {
			continue
		}
		if s.Range().Overlaps(rng) {
			return true
		}
	}
	for _, b := range r.OutOfOrder {
		if b.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}

func (r *Room) AddStay(stay Stay) {
	r.Stays = append(r.Stays, stay)
	sort.SliceStable(r.Stays, func(i, j int) bool {
		return r.Stays[i].CheckIn.Before(r.Stays[j].CheckIn)
	})
}

// SetOccupant marks the stay checked in and mirrors it onto the room.
func (r *Room) SetOccupant(stayID string) error {
	stay := r.FindStay(stayID)
	if stay == nil {
		return fmt.Errorf("stay %s not on room %s", stayID, r.Number)
	}
	stay.Status = StayStatusCheckedIn
	id := stay.ID
	name := stay.GuestName
	in := stay.CheckIn
	out := stay.CheckOut
	r.CurrentStayID = &id
	r.GuestName = &name
	r.CheckInDate = &in
	r.CheckOutDate = &out
	r.Status = RoomStatusOccupied
	return nil
}

func (r *Room) ClearOccupant() {
	r.CurrentStayID = nil
	r.GuestName = nil
	r.CheckInDate = nil
	r.CheckOutDate = nil
}

func (r *Room) IsOccupant(stayID string) bool {
	return r.CurrentStayID != nil && *r.CurrentStayID == stayID
}

// RemoveStay drops the stay from the room. If the stay was mirrored as the
// occupant, the mirrors are cleared and an Occupied room becomes Available.
func (r *Room) RemoveStay(stayID string) (Stay, bool) {
	for i := range r.Stays {
		if r.Stays[i].ID != stayID {
			continue
		}
		removed := r.Stays[i]
		r.Stays = append(r.Stays[:i], r.Stays[i+1:]...)
		if r.IsOccupant(stayID) {
			r.ClearOccupant()
			if r.Status == RoomStatusOccupied {
				r.Status = RoomStatusAvailable
			}
		}
		return removed, true
	}
	return Stay{}, false
}

// CheckOut removes the stay and leaves the room in Cleaning.
func (r *Room) CheckOut(stayID string, today time.Time) (Stay, bool) {
	removed, ok := r.RemoveStay(stayID)
	if !ok {
		return Stay{}, false
	}
	day := DateOf(today)
	r.Status = RoomStatusCleaning
	r.LastCheckoutDate = &day
	return removed, true
}

// CheckMirrors verifies that the occupancy mirrors are either all empty or
// all describe the single checked-in stay.
func (r *Room) CheckMirrors() error {
	var checkedIn []Stay
	for _, s := range r.Stays {
		if s.Status == StayStatusCheckedIn {
			checkedIn = append(checkedIn, s)
		}
	}
	if len(checkedIn) > 1 {
		return fmt.Errorf("%w: %d checked-in stays on room %s", ErrMirrorMismatch, len(checkedIn), r.Number)
	}
	if r.CurrentStayID == nil {
		if r.GuestName != nil || r.CheckInDate != nil || r.CheckOutDate != nil {
			return fmt.Errorf("%w: partial mirrors on room %s", ErrMirrorMismatch, r.Number)
		}
		if len(checkedIn) == 1 {
			return fmt.Errorf("%w: stay %s checked in without mirrors", ErrMirrorMismatch, checkedIn[0].ID)
		}
		return nil
	}
	if len(checkedIn) == 0 || checkedIn[0].ID != *r.CurrentStayID {
		return fmt.Errorf("%w: current stay %s is not checked in", ErrMirrorMismatch, *r.CurrentStayID)
	}
	s := checkedIn[0]
	if r.GuestName == nil || *r.GuestName != s.GuestName ||
		r.CheckInDate == nil || !r.CheckInDate.Equal(s.CheckIn) ||
		r.CheckOutDate == nil || !r.CheckOutDate.Equal(s.CheckOut) {
		return fmt.Errorf("%w: mirrors differ from stay %s", ErrMirrorMismatch, s.ID)
	}
	return nil
}

func (r *Room) FindOutOfOrder(blockID string) int {
	for i, b := range r.OutOfOrder {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	if r.Stays != nil {
		c.Stays = make([]Stay, len(r.Stays))
		for i, s := range r.Stays {
			c.Stays[i] = s.clone()
		}
	}
	if r.OutOfOrder != nil {
		c.OutOfOrder = append([]OutOfOrderBlock(nil), r.OutOfOrder...)
	}
	c.CurrentStayID = cloneString(r.CurrentStayID)
	c.GuestName = cloneString(r.GuestName)
	c.CheckInDate = cloneTime(r.CheckInDate)
	c.CheckOutDate = cloneTime(r.CheckOutDate)
	c.LastCheckoutDate = cloneTime(r.LastCheckoutDate)
	return &c
}
