package usecase

import (
	"context"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LookupService interface {
	// ResolveStay maps a stay ID to its room. Anything short of a live
	// pointer for this hotel, a room and the stay on it is
	// ErrInvalidOrExpiredStay.
	ResolveStay(ctx context.Context, hotelID, stayID string) (*ResolvedStay, error)
	GuestStay(ctx context.Context, hotelID, stayID string) (*GuestStay, error)
}

type ResolvedStay struct {
	HotelID    uuid.UUID
	RoomID     uuid.UUID
	RoomNumber string
	Stay       entity.Stay
}

// GuestStay is what a guest session may see. It carries no room ID.
type GuestStay struct {
	HotelName  string
	Currency   string
	RoomNumber string
	Stay       entity.Stay
	Summary    BillSummary
}

type lookupService struct {
	*engine
}

func NewLookupService(repo *repository.Repository, deps Dependencies, log *zap.Logger) LookupService {
	return &lookupService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "lookup"))),
	}
}

func (s *lookupService) ResolveStay(ctx context.Context, hotelID, stayID string) (*ResolvedStay, error) {
	resolved, _, err := s.resolve(ctx, hotelID, stayID)
	return resolved, err
}

func (s *lookupService) resolve(ctx context.Context, hotelID, stayID string) (*ResolvedStay, *entity.Room, error) {
	hotelUUID, err := uuid.Parse(hotelID)
	if err != nil {
		return nil, nil, ErrInvalidOrExpiredStay
	}

	pointer, err := s.repo.Pointer.FindByStayID(ctx, stayID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve stay %s: %w", stayID, err)
	}
	if pointer == nil {
		return nil, nil, ErrInvalidOrExpiredStay
	}
	if pointer.HotelID != hotelUUID {
		s.log.Warn("Stay resolved against the wrong hotel",
			zap.String("stay_id", stayID),
			zap.String("hotel_id", hotelID),
		)
		return nil, nil, ErrInvalidOrExpiredStay
	}

	room, err := s.repo.Room.FindByID(ctx, pointer.HotelID, pointer.RoomID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve stay %s: %w", stayID, err)
	}
	if room == nil {
		return nil, nil, ErrInvalidOrExpiredStay
	}
	stay := room.FindStay(stayID)
	if stay == nil {
		return nil, nil, ErrInvalidOrExpiredStay
	}

	return &ResolvedStay{
		HotelID:    room.HotelID,
		RoomID:     room.ID,
		RoomNumber: room.Number,
		Stay:       *stay,
	}, room, nil
}

func (s *lookupService) GuestStay(ctx context.Context, hotelID, stayID string) (*GuestStay, error) {
	resolved, room, err := s.resolve(ctx, hotelID, stayID)
	if err != nil {
		return nil, err
	}
	computed, err := s.liveBill(ctx, s.repo, room, resolved.Stay)
	if err != nil {
		return nil, fmt.Errorf("compute guest bill for stay %s: %w", stayID, err)
	}

	return &GuestStay{
		HotelName:  computed.Hotel.Name,
		Currency:   computed.Hotel.Currency,
		RoomNumber: resolved.RoomNumber,
		Stay:       resolved.Stay,
		Summary:    computed.Summary,
	}, nil
}
