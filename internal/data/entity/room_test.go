package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T) *Room {
	t.Helper()
	room := &Room{Number: "101", Status: RoomStatusAvailable}
	for _, s := range []struct{ id, from, to string }{
		{"101-bbbbbb", "2024-03-12", "2024-03-14"},
		{"101-aaaaaa", "2024-03-10", "2024-03-12"},
	} {
		rng := mustRange(t, s.from, s.to)
		room.AddStay(Stay{ID: s.id, GuestName: "Guest " + s.id, CheckIn: rng.From, CheckOut: rng.To, Status: StayStatusBooked})
	}
	return room
}

func TestRoom_AddStayKeepsCheckInOrder(t *testing.T) {
	room := newTestRoom(t)

	require.Len(t, room.Stays, 2)
	assert.Equal(t, "101-aaaaaa", room.Stays[0].ID)
	assert.Equal(t, "101-bbbbbb", room.Stays[1].ID)
}

func TestRoom_Conflicts(t *testing.T) {
	room := newTestRoom(t)
	block := mustRange(t, "2024-03-20", "2024-03-22")
	room.OutOfOrder = []OutOfOrderBlock{{ID: "b1", From: block.From, To: block.To}}

	assert.False(t, room.Conflicts(mustRange(t, "2024-03-14", "2024-03-16"), ""))
	assert.True(t, room.Conflicts(mustRange(t, "2024-03-13", "2024-03-15"), ""))
	assert.False(t, room.Conflicts(mustRange(t, "2024-03-13", "2024-03-14"), "101-bbbbbb"))
	assert.True(t, room.Conflicts(mustRange(t, "2024-03-21", "2024-03-25"), ""))
}

func TestRoom_SetOccupantMirrorsStay(t *testing.T) {
	room := newTestRoom(t)

	require.NoError(t, room.SetOccupant("101-aaaaaa"))

	assert.Equal(t, RoomStatusOccupied, room.Status)
	require.NotNil(t, room.CurrentStayID)
	assert.Equal(t, "101-aaaaaa", *room.CurrentStayID)
	assert.Equal(t, "Guest 101-aaaaaa", *room.GuestName)
	assert.Equal(t, StayStatusCheckedIn, room.FindStay("101-aaaaaa").Status)
	assert.NoError(t, room.CheckMirrors())

	assert.Error(t, room.SetOccupant("missing"))
}

func TestRoom_CheckMirrorsDetectsDrift(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.SetOccupant("101-aaaaaa"))

	other := "someone else"
	room.GuestName = &other
	assert.ErrorIs(t, room.CheckMirrors(), ErrMirrorMismatch)

	room = newTestRoom(t)
	room.Stays[0].Status = StayStatusCheckedIn
	assert.ErrorIs(t, room.CheckMirrors(), ErrMirrorMismatch)

	room = newTestRoom(t)
	name := "partial"
	room.GuestName = &name
	assert.ErrorIs(t, room.CheckMirrors(), ErrMirrorMismatch)
}

func TestRoom_RemoveStayClearsOccupant(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.SetOccupant("101-aaaaaa"))

	removed, ok := room.RemoveStay("101-aaaaaa")

	require.True(t, ok)
	assert.Equal(t, "101-aaaaaa", removed.ID)
	assert.Nil(t, room.CurrentStayID)
	assert.Nil(t, room.GuestName)
	assert.Nil(t, room.CheckInDate)
	assert.Nil(t, room.CheckOutDate)
	assert.Equal(t, RoomStatusAvailable, room.Status)
	assert.Len(t, room.Stays, 1)
	assert.NoError(t, room.CheckMirrors())

	_, ok = room.RemoveStay("101-aaaaaa")
	assert.False(t, ok)
}

func TestRoom_RemoveBookedStayKeepsOccupant(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.SetOccupant("101-aaaaaa"))

	_, ok := room.RemoveStay("101-bbbbbb")

	require.True(t, ok)
	assert.Equal(t, RoomStatusOccupied, room.Status)
	assert.True(t, room.IsOccupant("101-aaaaaa"))
}

func TestRoom_CheckOutLeavesCleaning(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.SetOccupant("101-aaaaaa"))
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)

	_, ok := room.CheckOut("101-aaaaaa", now)

	require.True(t, ok)
	assert.Equal(t, RoomStatusCleaning, room.Status)
	require.NotNil(t, room.LastCheckoutDate)
	assert.Equal(t, DateOf(now), *room.LastCheckoutDate)
	assert.Nil(t, room.CurrentStayID)
}

func TestRoom_CloneIsIndependent(t *testing.T) {
	room := newTestRoom(t)
	require.NoError(t, room.SetOccupant("101-aaaaaa"))
	room.Stays[0].Discount = &Discount{Type: DiscountFlat, Value: 100}

	c := room.Clone()
	c.Stays[0].GuestName = "changed"
	c.Stays[0].Discount.Value = 5
	*c.CurrentStayID = "changed"

	assert.Equal(t, "Guest 101-aaaaaa", room.Stays[0].GuestName)
	assert.Equal(t, 100.0, room.Stays[0].Discount.Value)
	assert.Equal(t, "101-aaaaaa", *room.CurrentStayID)
	assert.Nil(t, (*Room)(nil).Clone())
}

func TestStay_ClubbedRoles(t *testing.T) {
	master := "101-aaaaaa"
	primary := Stay{IsGroupBooking: true, IsPrimaryInGroup: true, GroupMasterStayID: &master}
	member := Stay{IsGroupBooking: true, GroupMasterStayID: &master}

	assert.True(t, primary.IsClubbedPrimary())
	assert.False(t, primary.IsClubbedMember())
	assert.True(t, member.IsClubbedMember())
	assert.False(t, Stay{}.IsClubbedMember())
}

func TestHotel_AtCapacity(t *testing.T) {
	assert.False(t, (&Hotel{MaxRooms: 0, RoomCount: 50}).AtCapacity())
	assert.False(t, (&Hotel{MaxRooms: 2, RoomCount: 1}).AtCapacity())
	assert.True(t, (&Hotel{MaxRooms: 2, RoomCount: 2}).AtCapacity())
}
