package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActiveStayPointer indexes a checked-in stay by its ID so a guest link can
// be resolved without scanning every room.
type ActiveStayPointer struct {
	StayID     string    `db:"stay_id"`
	HotelID    uuid.UUID `db:"hotel_id"`
	RoomID     uuid.UUID `db:"room_id"`
	RoomNumber string    `db:"room_number"`
	CreatedAt  time.Time `db:"created_at"`
}
