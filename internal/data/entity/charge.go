package entity

import "github.com/google/uuid"

// ChargeLogEntry is one posted service charge against a stay. Price is the
// line amount, not a unit price.
type ChargeLogEntry struct {
	BaseSimple
	HotelID  uuid.UUID `db:"hotel_id"`
	RoomID   uuid.UUID `db:"room_id"`
	StayID   string    `db:"stay_id"`
	Service  string    `db:"service"`
	Quantity float64   `db:"quantity"`
	Price    float64   `db:"price"`
	Note     *string   `db:"note"`
}
