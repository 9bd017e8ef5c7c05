package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/dto/request"
	"hotel-pms/pkg/utils"

	"go.uber.org/zap"
)

type RoomService interface {
	// CreateRoom does not check capacity; call HotelService.EnsureCapacity
	// first.
	CreateRoom(ctx context.Context, hotelID string, req *request.CreateRoomRequest) (*RoomView, error)
	DeleteRoom(ctx context.Context, hotelID, roomID string) error
	GetRoom(ctx context.Context, hotelID, roomID string) (*RoomView, error)
	ListRooms(ctx context.Context, hotelID string) ([]RoomView, error)
	AvailableRooms(ctx context.Context, hotelID string, req *request.AvailabilityRequest) ([]RoomView, error)
	AddOutOfOrder(ctx context.Context, hotelID, roomID string, req *request.OutOfOrderRequest) (*RoomView, error)
	RemoveOutOfOrder(ctx context.Context, hotelID, roomID, blockID string) (*RoomView, error)
	UpdateStatus(ctx context.Context, hotelID, roomID string, req *request.UpdateRoomStatusRequest) (*RoomView, error)
	ListTasks(ctx context.Context, hotelID, status string) ([]*entity.ServiceTask, error)
	View(room *entity.Room) RoomView
}

type RoomView struct {
	Room          *entity.Room
	DisplayStatus entity.DisplayStatus
}

type roomService struct {
	*engine
}

func NewRoomService(repo *repository.Repository, deps Dependencies, log *zap.Logger) RoomService {
	return &roomService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "room"))),
	}
}

func (s *roomService) View(room *entity.Room) RoomView {
	return RoomView{Room: room, DisplayStatus: DeriveDisplayStatus(room, s.now())}
}

func (s *roomService) CreateRoom(ctx context.Context, hotelID string, req *request.CreateRoomRequest) (view *RoomView, err error) {
	ctx, finish := s.track(ctx, "room.create")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		return nil, err
	}
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, validationError("room number is required")
	}

	now := s.now()
	room := &entity.Room{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		HotelID:      hotelUUID,
		Number:       number,
		Category:     strings.TrimSpace(req.Category),
		Status:       entity.RoomStatusAvailable,
		Stays:        []entity.Stay{},
		OutOfOrder:   []entity.OutOfOrderBlock{},
		Version:      1,
	}

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		hotel, err := tx.Hotel.FindByID(ctx, hotelUUID)
		if err != nil {
			return err
		}
		if hotel == nil {
			return notFound("hotel")
		}
		existing, err := tx.Room.FindByNumber(ctx, hotelUUID, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("room %s: %w", number, ErrDuplicateRoom)
		}
		if err := tx.Room.Create(ctx, room); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("room %s: %w", number, ErrDuplicateRoom)
			}
			return err
		}
		return tx.Hotel.AdjustRoomCount(ctx, hotelUUID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Room created", zap.String("room_number", room.Number), zap.String("hotel_id", hotelID))
	s.publish(ctx, room)
	v := s.View(room)
	return &v, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, hotelID, roomID string) (err error) {
	ctx, finish := s.track(ctx, "room.delete")
	defer func() { finish(OutcomeApplied, err) }()

	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return err
	}

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		room, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		if room.Status == entity.RoomStatusOccupied || room.CurrentStayID != nil {
			return fmt.Errorf("delete room %s: %w", room.Number, ErrRoomOccupied)
		}
		if err := tx.Room.Delete(ctx, room); err != nil {
			return err
		}
		return tx.Hotel.AdjustRoomCount(ctx, hotelUUID, -1)
	})
	if err != nil {
		return err
	}

	s.log.Info("Room deleted", zap.String("room_id", roomID), zap.String("hotel_id", hotelID))
	return nil
}

func (s *roomService) GetRoom(ctx context.Context, hotelID, roomID string) (*RoomView, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}
	room, err := s.loadRoom(ctx, s.repo, hotelUUID, roomUUID)
	if err != nil {
		return nil, err
	}
	v := s.View(room)
	return &v, nil
}

func (s *roomService) ListRooms(ctx context.Context, hotelID string) ([]RoomView, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.Room.FindByHotel(ctx, hotelUUID)
	if err != nil {
		return nil, err
	}
	return s.views(rooms), nil
}

func (s *roomService) AvailableRooms(ctx context.Context, hotelID string, req *request.AvailabilityRequest) ([]RoomView, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	rng, err := parseStayRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.Room.FindByHotel(ctx, hotelUUID)
	if err != nil {
		return nil, err
	}
	return s.views(FindAvailableRooms(rooms, rng)), nil
}

func (s *roomService) views(rooms []*entity.Room) []RoomView {
	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, s.View(r))
	}
	return views
}

func (s *roomService) AddOutOfOrder(ctx context.Context, hotelID, roomID string, req *request.OutOfOrderRequest) (view *RoomView, err error) {
	ctx, finish := s.track(ctx, "room.out_of_order.add")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		return nil, err
	}
	rng, err := parseStayRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return s.mutateRoom(ctx, hotelID, roomID, func(room *entity.Room) error {
		if room.Conflicts(rng, "") {
			return fmt.Errorf("out-of-order %s on room %s: %w", rng, room.Number, ErrStayConflict)
		}
		room.OutOfOrder = append(room.OutOfOrder, entity.OutOfOrderBlock{
			ID:     utils.GenerateBlockID(),
			From:   rng.From,
			To:     rng.To,
			Reason: strings.TrimSpace(req.Reason),
		})
		return nil
	})
}

func (s *roomService) RemoveOutOfOrder(ctx context.Context, hotelID, roomID, blockID string) (view *RoomView, err error) {
	ctx, finish := s.track(ctx, "room.out_of_order.remove")
	defer func() { finish(OutcomeApplied, err) }()

	return s.mutateRoom(ctx, hotelID, roomID, func(room *entity.Room) error {
		i := room.FindOutOfOrder(blockID)
		if i < 0 {
			return notFound("out-of-order block " + blockID)
		}
		room.OutOfOrder = append(room.OutOfOrder[:i], room.OutOfOrder[i+1:]...)
		return nil
	})
}

// UpdateStatus is the housekeeping switch between Cleaning and Available.
// It never touches an occupied room.
func (s *roomService) UpdateStatus(ctx context.Context, hotelID, roomID string, req *request.UpdateRoomStatusRequest) (view *RoomView, err error) {
	ctx, finish := s.track(ctx, "room.status")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		return nil, err
	}
	return s.mutateRoom(ctx, hotelID, roomID, func(room *entity.Room) error {
		if room.Status == entity.RoomStatusOccupied {
			return fmt.Errorf("set status on room %s: %w", room.Number, ErrRoomOccupied)
		}
		room.Status = entity.RoomStatus(req.Status)
		return nil
	})
}

func (s *roomService) mutateRoom(ctx context.Context, hotelID, roomID string, mutate func(*entity.Room) error) (*RoomView, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	var room *entity.Room
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		loaded, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		if err := mutate(loaded); err != nil {
			return err
		}
		if err := writeRoom(ctx, tx, loaded); err != nil {
			return err
		}
		room = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, room)
	v := s.View(room)
	return &v, nil
}

func (s *roomService) ListTasks(ctx context.Context, hotelID, status string) ([]*entity.ServiceTask, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	var filter *entity.TaskStatus
	if status != "" {
		ts := entity.TaskStatus(status)
		filter = &ts
	}
	return s.repo.Task.FindByHotel(ctx, hotelUUID, filter)
}
