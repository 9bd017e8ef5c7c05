package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/data/repository/memory"
	"hotel-pms/internal/dto/request"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu    sync.Mutex
	rooms []*entity.Room
}

func (p *recordingPublisher) PublishRoom(_ context.Context, room *entity.Room) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms = append(p.rooms, room.Clone())
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rooms)
}

type reported struct {
	operation string
	outcome   Outcome
	err       error
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []reported
}

func (r *recordingReporter) Report(_ context.Context, operation string, outcome Outcome, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, reported{operation, outcome, err})
}

func (r *recordingReporter) last() reported {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports[len(r.reports)-1]
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	repo      *repository.Repository
	svc       *Service
	hotel     *entity.Hotel
	now       time.Time
	publisher *recordingPublisher
	reporter  *recordingReporter
}

// newFixture builds the services on a fresh memory store with the clock
// fixed at 2024-03-10 10:00 UTC, and creates one hotel at 18% GST and a 10%
// service charge.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		repo:      memory.NewRepository(zap.NewNop()),
		now:       time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		publisher: &recordingPublisher{},
		reporter:  &recordingReporter{},
	}
	f.svc = NewService(f.repo, Dependencies{
		Publisher: f.publisher,
		Reporter:  f.reporter,
		Clock:     func() time.Time { return f.now },
	}, zap.NewNop())
	f.hotel = f.createHotel("Seaside", 0)
	return f
}

func (f *fixture) createHotel(name string, maxRooms int) *entity.Hotel {
	f.t.Helper()
	hotel, err := f.svc.Hotel.CreateHotel(f.ctx, &request.CreateHotelRequest{
		Name:              name,
		MaxRooms:          maxRooms,
		GSTRate:           18,
		ServiceChargeRate: 10,
		StaffKey:          "front-desk-key",
	})
	require.NoError(f.t, err)
	return hotel
}

func (f *fixture) hotelID() string {
	return f.hotel.ID.String()
}

func (f *fixture) createRoom(number string) *entity.Room {
	f.t.Helper()
	view, err := f.svc.Room.CreateRoom(f.ctx, f.hotelID(), &request.CreateRoomRequest{Number: number, Category: "Deluxe"})
	require.NoError(f.t, err)
	return view.Room
}

func (f *fixture) book(room *entity.Room, from, to string, charge float64) entity.Stay {
	f.t.Helper()
	booked, err := f.svc.Booking.BookSingle(f.ctx, f.hotelID(), &request.CreateBookingRequest{
		RoomID:     room.ID.String(),
		GuestName:  "Asha Rao",
		RoomCharge: charge,
		CheckIn:    from,
		CheckOut:   to,
	})
	require.NoError(f.t, err)
	return booked.Stay
}

func (f *fixture) checkIn(room *entity.Room, stayID string) *StayResult {
	f.t.Helper()
	result, err := f.svc.Stay.CheckIn(f.ctx, f.hotelID(), room.ID.String(), stayID)
	require.NoError(f.t, err)
	return result
}

func (f *fixture) room(id string) *entity.Room {
	f.t.Helper()
	view, err := f.svc.Room.GetRoom(f.ctx, f.hotelID(), id)
	require.NoError(f.t, err)
	return view.Room
}
