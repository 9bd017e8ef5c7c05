package usecase

import (
	"context"
	"fmt"
	"strings"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/dto/request"
	"hotel-pms/pkg/utils"

	"go.uber.org/zap"
)

const defaultCurrency = "INR"

type HotelService interface {
	CreateHotel(ctx context.Context, req *request.CreateHotelRequest) (*entity.Hotel, error)
	GetHotel(ctx context.Context, hotelID string) (*entity.Hotel, error)
	// EnsureCapacity is the caller-side room limit check, run before
	// RoomService.CreateRoom.
	EnsureCapacity(ctx context.Context, hotelID string) error
}

type hotelService struct {
	*engine
}

func NewHotelService(repo *repository.Repository, deps Dependencies, log *zap.Logger) HotelService {
	return &hotelService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "hotel"))),
	}
}

func (s *hotelService) CreateHotel(ctx context.Context, req *request.CreateHotelRequest) (*entity.Hotel, error) {
	if err := checkRequest(req); err != nil {
		s.log.Warn("Create hotel validation failed", zap.Error(err))
		return nil, err
	}

	hash, err := utils.HashSecret(req.StaffKey)
	if err != nil {
		return nil, fmt.Errorf("hash staff key: %w", err)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	now := s.now()
	hotel := &entity.Hotel{
		BaseNoDelete:      entity.NewBaseNoDelete(now),
		Name:              strings.TrimSpace(req.Name),
		MaxRooms:          req.MaxRooms,
		GSTRate:           req.GSTRate,
		ServiceChargeRate: req.ServiceChargeRate,
		Currency:          currency,
		StaffKeyHash:      hash,
	}
	if err := s.repo.Hotel.Create(ctx, hotel); err != nil {
		return nil, err
	}

	s.log.Info("Hotel created", zap.String("hotel_id", hotel.ID.String()), zap.String("name", hotel.Name))
	return hotel, nil
}

func (s *hotelService) GetHotel(ctx context.Context, hotelID string) (*entity.Hotel, error) {
	id, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	hotel, err := s.repo.Hotel.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, notFound("hotel")
	}
	return hotel, nil
}

func (s *hotelService) EnsureCapacity(ctx context.Context, hotelID string) error {
	hotel, err := s.GetHotel(ctx, hotelID)
	if err != nil {
		return err
	}
	if hotel.AtCapacity() {
		return fmt.Errorf("%d of %d rooms: %w", hotel.RoomCount, hotel.MaxRooms, ErrCapacityReached)
	}
	return nil
}
