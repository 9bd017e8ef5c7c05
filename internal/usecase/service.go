package usecase

import (
	"hotel-pms/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Hotel   HotelService
	Room    RoomService
	Booking BookingService
	Stay    StayService
	Billing BillingService
	Lookup  LookupService
}

func NewService(repo *repository.Repository, deps Dependencies, log *zap.Logger) *Service {
	return &Service{
		Hotel:   NewHotelService(repo, deps, log),
		Room:    NewRoomService(repo, deps, log),
		Booking: NewBookingService(repo, deps, log),
		Stay:    NewStayService(repo, deps, log),
		Billing: NewBillingService(repo, deps, log),
		Lookup:  NewLookupService(repo, deps, log),
	}
}
