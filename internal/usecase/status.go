package usecase

import (
	"time"

	"hotel-pms/internal/data/entity"
)

// DeriveDisplayStatus computes the front-desk status of a room for today.
// Rules apply in order and the first match wins. Nothing is cached; call it
// on every render.
func DeriveDisplayStatus(room *entity.Room, today time.Time) entity.DisplayStatus {
	day := entity.DateOf(today)

	for _, b := range room.OutOfOrder {
		if b.Range().Contains(day) {
			return entity.DisplayOutOfOrder
		}
	}

	if room.Status == entity.RoomStatusCleaning && room.LastCheckoutDate != nil &&
		entity.DateOf(*room.LastCheckoutDate).Equal(day) {
		return entity.DisplayCleaning
	}

	if room.Status == entity.RoomStatusOccupied {
		return entity.DisplayOccupied
	}

	// due today, or overdue while the booked dates are still running
	for _, s := range room.Stays {
		if s.Status == entity.StayStatusBooked && s.Range().Contains(day) {
			return entity.DisplayWaitingForCheckIn
		}
	}

	for _, s := range room.Stays {
		if s.Status == entity.StayStatusBooked && s.CheckIn.After(day) {
			return entity.DisplayReserved
		}
	}

	if room.Status == "" {
		return entity.DisplayAvailable
	}
	return entity.DisplayStatus(room.Status)
}
