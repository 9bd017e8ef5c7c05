package usecase

import (
	"testing"
	"time"

	"hotel-pms/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	d, err := entity.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func bookedStay(id, from, to string) entity.Stay {
	return entity.Stay{ID: id, GuestName: "Guest", RoomCharge: 1000, CheckIn: day(from), CheckOut: day(to), Status: entity.StayStatusBooked}
}

func TestDeriveDisplayStatus(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	checkoutToday := day("2024-03-10")
	checkoutYesterday := day("2024-03-09")

	tests := []struct {
		name string
		room entity.Room
		want entity.DisplayStatus
	}{
		{
			name: "no stays",
			room: entity.Room{Status: entity.RoomStatusAvailable},
			want: entity.DisplayAvailable,
		},
		{
			name: "empty stored status",
			room: entity.Room{},
			want: entity.DisplayAvailable,
		},
		{
			name: "out of order wins over occupancy",
			room: entity.Room{
				Status:     entity.RoomStatusOccupied,
				OutOfOrder: []entity.OutOfOrderBlock{{ID: "b1", From: day("2024-03-09"), To: day("2024-03-11")}},
			},
			want: entity.DisplayOutOfOrder,
		},
		{
			name: "out of order ending today does not apply",
			room: entity.Room{
				Status:     entity.RoomStatusAvailable,
				OutOfOrder: []entity.OutOfOrderBlock{{ID: "b1", From: day("2024-03-08"), To: day("2024-03-10")}},
			},
			want: entity.DisplayAvailable,
		},
		{
			name: "cleaning after checkout today",
			room: entity.Room{
				Status:           entity.RoomStatusCleaning,
				LastCheckoutDate: &checkoutToday,
				Stays:            []entity.Stay{bookedStay("101-a", "2024-03-10", "2024-03-12")},
			},
			want: entity.DisplayCleaning,
		},
		{
			name: "stale cleaning yields to arrival",
			room: entity.Room{
				Status:           entity.RoomStatusCleaning,
				LastCheckoutDate: &checkoutYesterday,
				Stays:            []entity.Stay{bookedStay("101-a", "2024-03-10", "2024-03-12")},
			},
			want: entity.DisplayWaitingForCheckIn,
		},
		{
			name: "occupied",
			room: entity.Room{
				Status: entity.RoomStatusOccupied,
				Stays:  []entity.Stay{bookedStay("101-b", "2024-03-10", "2024-03-11")},
			},
			want: entity.DisplayOccupied,
		},
		{
			name: "overdue arrival still waiting",
			room: entity.Room{
				Status: entity.RoomStatusAvailable,
				Stays:  []entity.Stay{bookedStay("101-a", "2024-03-08", "2024-03-12")},
			},
			want: entity.DisplayWaitingForCheckIn,
		},
		{
			name: "future booking",
			room: entity.Room{
				Status: entity.RoomStatusAvailable,
				Stays:  []entity.Stay{bookedStay("101-a", "2024-03-15", "2024-03-17")},
			},
			want: entity.DisplayReserved,
		},
		{
			name: "booking ending today is neither",
			room: entity.Room{
				Status: entity.RoomStatusAvailable,
				Stays:  []entity.Stay{bookedStay("101-a", "2024-03-08", "2024-03-10")},
			},
			want: entity.DisplayAvailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDisplayStatus(&tt.room, today))
		})
	}
}

func TestFindAvailableRooms(t *testing.T) {
	free := &entity.Room{Number: "101"}
	endsOnArrival := &entity.Room{Number: "102", Stays: []entity.Stay{bookedStay("102-a", "2024-03-08", "2024-03-10")}}
	overlapping := &entity.Room{Number: "103", Stays: []entity.Stay{bookedStay("103-a", "2024-03-11", "2024-03-13")}}
	blocked := &entity.Room{Number: "104", OutOfOrder: []entity.OutOfOrderBlock{{ID: "b1", From: day("2024-03-09"), To: day("2024-03-11")}}}
	startsOnDeparture := &entity.Room{Number: "105", Stays: []entity.Stay{bookedStay("105-a", "2024-03-12", "2024-03-14")}}
	rooms := []*entity.Room{free, endsOnArrival, overlapping, blocked, startsOnDeparture}

	got := FindAvailableRooms(rooms, entity.NewDateRange(day("2024-03-10"), day("2024-03-12")))

	assert.Equal(t, []*entity.Room{free, endsOnArrival, startsOnDeparture}, got)
	assert.Empty(t, FindAvailableRooms(rooms, entity.NewDateRange(day("2024-03-12"), day("2024-03-10"))))
}
