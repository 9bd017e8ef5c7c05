package entity

import "github.com/google/uuid"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

const (
	TaskTypeHousekeeping  = "Housekeeping"
	TaskPostCheckout      = "Post-Checkout Cleaning"
	TaskRequestedBySystem = "system"
)

type ServiceTask struct {
	BaseSimple
	HotelID     uuid.UUID  `db:"hotel_id"`
	RoomID      uuid.UUID  `db:"room_id"`
	RoomNumber  string     `db:"room_number"`
	StayID      string     `db:"stay_id"`
	Type        string     `db:"type"`
	Description string     `db:"description"`
	Status      TaskStatus `db:"status"`
	RequestedBy string     `db:"requested_by"`
}
