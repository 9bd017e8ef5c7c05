package entity

type Hotel struct {
	BaseNoDelete
	Name              string  `db:"name"`
	MaxRooms          int     `db:"max_rooms"`
	RoomCount         int     `db:"room_count"`
	GSTRate           float64 `db:"gst_rate"`
	ServiceChargeRate float64 `db:"service_charge_rate"`
	Currency          string  `db:"currency"`
	StaffKeyHash      string  `db:"staff_key_hash"`
}

func (h *Hotel) AtCapacity() bool {
	return h.MaxRooms > 0 && h.RoomCount >= h.MaxRooms
}
