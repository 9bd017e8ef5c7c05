package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/dto/request"
	"hotel-pms/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	BookSingle(ctx context.Context, hotelID string, req *request.CreateBookingRequest) (*BookedStay, error)
	BookGroup(ctx context.Context, hotelID string, req *request.GroupBookingRequest) (*GroupBooking, error)
}

type BookedStay struct {
	RoomID     uuid.UUID
	RoomNumber string
	Stay       entity.Stay
}

type GroupBooking struct {
	GroupMasterStayID *string
	Stays             []BookedStay
}

type bookingService struct {
	*engine
}

func NewBookingService(repo *repository.Repository, deps Dependencies, log *zap.Logger) BookingService {
	return &bookingService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "booking"))),
	}
}

func checkRequest(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError("%s", utils.FormatValidationErrors(errs))
	}
	return nil
}

func parseStayRange(checkIn, checkOut string) (entity.DateRange, error) {
	rng, err := entity.ParseDateRange(checkIn, checkOut)
	if err != nil {
		return entity.DateRange{}, validationError("%v", err)
	}
	if !rng.Valid() {
		return entity.DateRange{}, validationError("check-out %s must be after check-in %s", checkOut, checkIn)
	}
	return rng, nil
}

type stayDraft struct {
	guestName       string
	guestNumber     *string
	roomCharge      float64
	billedToCompany bool
	companyName     *string
}

func (d stayDraft) validate() error {
	if strings.TrimSpace(d.guestName) == "" {
		return validationError("guest name is required")
	}
	if d.roomCharge <= 0 {
		return validationError("room charge must be greater than 0")
	}
	return nil
}

func (d stayDraft) stay(id string, rng entity.DateRange, now func() time.Time) entity.Stay {
	return entity.Stay{
		ID:              id,
		GuestName:       strings.TrimSpace(d.guestName),
		GuestNumber:     d.guestNumber,
		RoomCharge:      d.roomCharge,
		CheckIn:         rng.From,
		CheckOut:        rng.To,
		Status:          entity.StayStatusBooked,
		BilledToCompany: d.billedToCompany,
		CompanyName:     d.companyName,
		CreatedAt:       now(),
	}
}

func (s *bookingService) BookSingle(ctx context.Context, hotelID string, req *request.CreateBookingRequest) (result *BookedStay, err error) {
	ctx, finish := s.track(ctx, "booking.single")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		s.log.Warn("Book single validation failed", zap.Error(err))
		return nil, err
	}
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("room", req.RoomID)
	if err != nil {
		return nil, err
	}
	rng, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	draft := stayDraft{
		guestName:       req.GuestName,
		guestNumber:     req.GuestNumber,
		roomCharge:      req.RoomCharge,
		billedToCompany: req.BilledToCompany,
		companyName:     req.CompanyName,
	}
	if err := draft.validate(); err != nil {
		return nil, err
	}

	var room *entity.Room
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		loaded, err := s.loadRoom(ctx, tx, hotelUUID, roomID)
		if err != nil {
			return err
		}
		room = loaded
		if room.Conflicts(rng, "") {
			return fmt.Errorf("room %s for %s: %w", room.Number, rng, ErrStayConflict)
		}
		id, err := s.allocateStayID(ctx, tx, room, nil)
		if err != nil {
			return err
		}
		stay := draft.stay(id, rng, s.now)
		room.AddStay(stay)
		if err := writeRoom(ctx, tx, room); err != nil {
			return err
		}
		result = &BookedStay{RoomID: room.ID, RoomNumber: room.Number, Stay: stay}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Stay booked",
		zap.String("stay_id", result.Stay.ID),
		zap.String("room_number", result.RoomNumber),
		zap.String("range", rng.String()),
	)
	s.publish(ctx, room)
	return result, nil
}

type groupLine struct {
	roomID uuid.UUID
	draft  stayDraft
}

func (s *bookingService) BookGroup(ctx context.Context, hotelID string, req *request.GroupBookingRequest) (result *GroupBooking, err error) {
	ctx, finish := s.track(ctx, "booking.group")
	defer func() { finish(OutcomeApplied, err) }()

	lines, primaryID, rng, hotelUUID, err := s.validateGroup(hotelID, req)
	if err != nil {
		s.log.Warn("Group booking validation failed", zap.Error(err))
		return nil, err
	}

	var rooms []*entity.Room
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		rooms = make([]*entity.Room, len(lines))
		ids := make([]string, len(lines))
		reserved := make(map[string]bool, len(lines))
		primaryStayID := ""

		for i, line := range lines {
			room, err := s.loadRoom(ctx, tx, hotelUUID, line.roomID)
			if err != nil {
				return err
			}
			if room.Conflicts(rng, "") {
				return fmt.Errorf("room %s for %s: %w", room.Number, rng, ErrStayConflict)
			}
			id, err := s.allocateStayID(ctx, tx, room, reserved)
			if err != nil {
				return err
			}
			reserved[id] = true
			rooms[i], ids[i] = room, id
			if req.IsClubbed && line.roomID == primaryID {
				primaryStayID = id
			}
		}

		result = &GroupBooking{}
		if req.IsClubbed {
			result.GroupMasterStayID = &primaryStayID
		}
		for i, line := range lines {
			stay := line.draft.stay(ids[i], rng, s.now)
			if req.IsClubbed {
				master := primaryStayID
				stay.IsGroupBooking = true
				stay.IsPrimaryInGroup = line.roomID == primaryID
				stay.GroupMasterStayID = &master
			}
			rooms[i].AddStay(stay)
			if err := writeRoom(ctx, tx, rooms[i]); err != nil {
				return err
			}
			result.Stays = append(result.Stays, BookedStay{RoomID: rooms[i].ID, RoomNumber: rooms[i].Number, Stay: stay})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Group booked",
		zap.Int("rooms", len(result.Stays)),
		zap.Bool("clubbed", req.IsClubbed),
		zap.String("range", rng.String()),
	)
	s.publish(ctx, rooms...)
	return result, nil
}

// validateGroup checks everything that can be checked without the store,
// so a bad group is refused before any write.
func (s *bookingService) validateGroup(hotelID string, req *request.GroupBookingRequest) ([]groupLine, uuid.UUID, entity.DateRange, uuid.UUID, error) {
	fail := func(err error) ([]groupLine, uuid.UUID, entity.DateRange, uuid.UUID, error) {
		return nil, uuid.Nil, entity.DateRange{}, uuid.Nil, err
	}

	if err := checkRequest(req); err != nil {
		return fail(err)
	}
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return fail(err)
	}
	rng, err := parseStayRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return fail(err)
	}

	var primaryID uuid.UUID
	if req.IsClubbed {
		if req.PrimaryRoomID == nil {
			return fail(validationError("a clubbed group needs a primary room"))
		}
		if primaryID, err = parseID("primary room", *req.PrimaryRoomID); err != nil {
			return fail(err)
		}
	}

	seen := make(map[uuid.UUID]bool, len(req.Assignments))
	lines := make([]groupLine, 0, len(req.Assignments))
	primaryAssigned := false
	for i, a := range req.Assignments {
		roomID, err := parseID("room", a.RoomID)
		if err != nil {
			return fail(err)
		}
		if seen[roomID] {
			return fail(validationError("room %s is assigned twice", a.RoomID))
		}
		seen[roomID] = true
		if roomID == primaryID {
			primaryAssigned = true
		}

		draft := stayDraft{
			guestName:       a.GuestName,
			guestNumber:     a.GuestNumber,
			roomCharge:      a.RoomCharge,
			billedToCompany: req.BilledToCompany,
			companyName:     req.CompanyName,
		}
		if strings.TrimSpace(draft.guestName) == "" {
			draft.guestName = req.GuestName
			if draft.guestNumber == nil {
				draft.guestNumber = req.GuestNumber
			}
		}
		if err := draft.validate(); err != nil {
			return fail(fmt.Errorf("assignment %d: %w", i, err))
		}
		lines = append(lines, groupLine{roomID: roomID, draft: draft})
	}

	if req.IsClubbed && !primaryAssigned {
		return fail(validationError("primary room %s is not one of the assigned rooms", *req.PrimaryRoomID))
	}

	return lines, primaryID, rng, hotelUUID, nil
}
