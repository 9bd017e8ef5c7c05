package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/dto/request"

	"go.uber.org/zap"
)

type StayService interface {
	CheckIn(ctx context.Context, hotelID, roomID, stayID string) (*StayResult, error)
	RemoveStay(ctx context.Context, hotelID, roomID, stayID string) (*StayResult, error)
	// ArchiveStay checks a stay out. It does not look at the balance; that
	// gate belongs to the caller.
	ArchiveStay(ctx context.Context, hotelID, roomID, stayID string, req *request.CheckoutRequest) (*CheckoutResult, error)
	ForceArchiveStay(ctx context.Context, hotelID, roomID, stayID string, req *request.CheckoutRequest) (*CheckoutResult, error)
	ApplyDiscount(ctx context.Context, hotelID, roomID, stayID string, req *request.DiscountRequest) (*entity.Stay, error)
	RecordPayment(ctx context.Context, hotelID, roomID, stayID string, req *request.PaymentRequest) (*entity.Stay, error)
}

type StayResult struct {
	Outcome Outcome
	Room    *entity.Room
	Stay    *entity.Stay
}

type CheckoutResult struct {
	Outcome Outcome
	// Record is nil when the bill was not archivable (zero total, not
	// billed to a company).
	Record *entity.CheckedOutStay
	Bill   entity.FinalBill
	Task   *entity.ServiceTask
	Room   *entity.Room
	Forced bool
}

var errAlreadyArchived = errors.New("stay already archived")

type stayService struct {
	*engine
}

func NewStayService(repo *repository.Repository, deps Dependencies, log *zap.Logger) StayService {
	return &stayService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "stay"))),
	}
}

func (s *stayService) CheckIn(ctx context.Context, hotelID, roomID, stayID string) (result *StayResult, err error) {
	ctx, finish := s.track(ctx, "stay.check_in")
	defer func() { finish(outcomeOf(result), err) }()

	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		room, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		stay := room.FindStay(stayID)
		if stay == nil {
			return notFound("stay " + stayID)
		}
		if stay.Status == entity.StayStatusCheckedIn {
			result = &StayResult{Outcome: OutcomeAlreadyCheckedIn, Room: room, Stay: stay}
			return nil
		}
		if room.CurrentStayID != nil && *room.CurrentStayID != stayID {
			return fmt.Errorf("room %s holds stay %s: %w", room.Number, *room.CurrentStayID, ErrRoomOccupied)
		}
		if !s.today().Before(stay.CheckOut) {
			return validationError("stay %s ended on %s", stayID, entity.FormatDate(stay.CheckOut))
		}

		if err := room.SetOccupant(stayID); err != nil {
			return err
		}
		if err := writeRoom(ctx, tx, room); err != nil {
			return err
		}
		// a pointer left by an aborted flow is replaced, not duplicated
		if _, err := tx.Pointer.Delete(ctx, stayID); err != nil {
			return err
		}
		if err := tx.Pointer.Create(ctx, &entity.ActiveStayPointer{
			StayID:     stayID,
			HotelID:    room.HotelID,
			RoomID:     room.ID,
			RoomNumber: room.Number,
			CreatedAt:  s.now(),
		}); err != nil {
			return err
		}
		result = &StayResult{Outcome: OutcomeApplied, Room: room, Stay: room.FindStay(stayID)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeApplied {
		s.log.Info("Guest checked in",
			zap.String("stay_id", stayID),
			zap.String("room_number", result.Room.Number),
		)
		s.publish(ctx, result.Room)
	}
	return result, nil
}

func (s *stayService) RemoveStay(ctx context.Context, hotelID, roomID, stayID string) (result *StayResult, err error) {
	ctx, finish := s.track(ctx, "stay.remove")
	defer func() { finish(outcomeOf(result), err) }()

	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		room, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		removed, ok := room.RemoveStay(stayID)
		if !ok {
			// a concurrent remove got here first; still drop a stray pointer
			if _, err := tx.Pointer.Delete(ctx, stayID); err != nil {
				return err
			}
			result = &StayResult{Outcome: OutcomeAlreadyRemoved, Room: room}
			return nil
		}
		if err := writeRoom(ctx, tx, room); err != nil {
			return err
		}
		if _, err := tx.Pointer.Delete(ctx, stayID); err != nil {
			return err
		}
		result = &StayResult{Outcome: OutcomeApplied, Room: room, Stay: &removed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeApplied {
		s.log.Info("Stay removed",
			zap.String("stay_id", stayID),
			zap.String("room_number", result.Room.Number),
			zap.String("status", string(result.Stay.Status)),
		)
		s.publish(ctx, result.Room)
	}
	return result, nil
}

func (s *stayService) ArchiveStay(ctx context.Context, hotelID, roomID, stayID string, req *request.CheckoutRequest) (*CheckoutResult, error) {
	return s.archive(ctx, hotelID, roomID, stayID, req, false)
}

func (s *stayService) ForceArchiveStay(ctx context.Context, hotelID, roomID, stayID string, req *request.CheckoutRequest) (*CheckoutResult, error) {
	return s.archive(ctx, hotelID, roomID, stayID, req, true)
}

func (s *stayService) archive(ctx context.Context, hotelID, roomID, stayID string, req *request.CheckoutRequest, forced bool) (result *CheckoutResult, err error) {
	operation := "stay.archive"
	if forced {
		operation = "stay.archive_forced"
	}
	ctx, finish := s.track(ctx, operation)
	defer func() {
		outcome := OutcomeApplied
		if result != nil {
			outcome = result.Outcome
		}
		finish(outcome, err)
	}()

	if req == nil {
		req = &request.CheckoutRequest{}
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	var touched []*entity.Room
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		touched = nil
		room, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		current := room.FindStay(stayID)
		if current == nil {
			result = &CheckoutResult{Outcome: OutcomeAlreadyCheckedOut, Room: room}
			return nil
		}
		if current.Status != entity.StayStatusCheckedIn {
			return validationError("stay %s has not been checked in", stayID)
		}
		stay := *current

		live, err := s.liveBill(ctx, tx, room, stay)
		if err != nil {
			return err
		}
		input := live.Summary.ToBillInput("")
		if req.Bill != nil {
			input = *req.Bill
		}
		if input.PaymentMethod == nil {
			switch {
			case req.PaymentMethod != "":
				input.PaymentMethod = &req.PaymentMethod
			case stay.PaymentMethod != nil:
				input.PaymentMethod = stay.PaymentMethod
			}
		}
		bill := NewFinalBill(input)
		now := s.now()

		res := &CheckoutResult{Outcome: OutcomeApplied, Bill: bill, Forced: forced}
		if ShouldArchive(bill, stay) {
			record := &entity.CheckedOutStay{
				BaseSimple:        entity.NewBaseSimple(now),
				HotelID:           room.HotelID,
				RoomID:            room.ID,
				RoomNumber:        room.Number,
				StayID:            stay.ID,
				GuestName:         stay.GuestName,
				GuestNumber:       stay.GuestNumber,
				CheckIn:           stay.CheckIn,
				CheckOut:          stay.CheckOut,
				CheckedOutAt:      now,
				BilledToCompany:   stay.BilledToCompany,
				CompanyName:       stay.CompanyName,
				GroupMasterStayID: stay.GroupMasterStayID,
				Forced:            forced,
				FinalBill:         bill,
			}
			if err := tx.History.Create(ctx, record); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return errAlreadyArchived
				}
				return err
			}
			res.Record = record
		}

		task := &entity.ServiceTask{
			BaseSimple:  entity.NewBaseSimple(now),
			HotelID:     room.HotelID,
			RoomID:      room.ID,
			RoomNumber:  room.Number,
			StayID:      stay.ID,
			Type:        entity.TaskTypeHousekeeping,
			Description: entity.TaskPostCheckout,
			Status:      entity.TaskStatusPending,
			RequestedBy: entity.TaskRequestedBySystem,
		}
		if err := tx.Task.Create(ctx, task); err != nil {
			return err
		}
		res.Task = task

		if _, err := tx.Pointer.Delete(ctx, stay.ID); err != nil {
			return err
		}

		room.CheckOut(stay.ID, now)
		if err := writeRoom(ctx, tx, room); err != nil {
			return err
		}
		touched = append(touched, room)

		if live.Primary != nil && req.Bill == nil {
			carrier, err := s.transferFolio(ctx, tx, room, stay, *live.Primary, now)
			if err != nil {
				return err
			}
			if carrier != nil {
				touched = append(touched, carrier)
			}
		}

		for _, m := range live.Members {
			member := m.room.FindStay(m.stayID)
			if member == nil {
				continue
			}
			settledBy := stay.ID
			member.SettledByStayID = &settledBy
			if err := writeRoom(ctx, tx, m.room); err != nil {
				return err
			}
			touched = append(touched, m.room)
		}

		res.Room = room
		result = res
		return nil
	})
	if errors.Is(err, errAlreadyArchived) {
		result = &CheckoutResult{Outcome: OutcomeAlreadyCheckedOut}
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if result.Outcome == OutcomeApplied {
		fields := []zap.Field{
			zap.String("stay_id", stayID),
			zap.String("room_number", result.Room.Number),
			zap.Float64("total", result.Bill.Total),
			zap.Float64("balance", result.Bill.Balance),
			zap.Bool("archived", result.Record != nil),
		}
		if forced {
			s.log.Warn("Forced checkout", fields...)
		} else {
			s.log.Info("Guest checked out", fields...)
		}
		s.publish(ctx, touched...)
	}
	return result, nil
}

// transferFolio moves a departing clubbed member's room nights, services and
// payments onto its primary stay. The primary's room is returned when it was
// rewritten.
func (s *stayService) transferFolio(ctx context.Context, tx *repository.Repository, room *entity.Room, member entity.Stay, primary groupMember, now time.Time) (*entity.Room, error) {
	charges, err := tx.Charge.FindByStayID(ctx, room.HotelID, member.ID)
	if err != nil {
		return nil, err
	}
	note := fmt.Sprintf("Transferred from room %s (%s)", room.Number, member.ID)

	carried := make([]*entity.ChargeLogEntry, 0, len(charges)+1)
	if nights := stayNights(member); member.RoomCharge > 0 {
		carried = append(carried, &entity.ChargeLogEntry{
			Service:  fmt.Sprintf("Room %s charges", room.Number),
			Quantity: float64(nights),
			Price:    member.RoomCharge * float64(nights),
		})
	}
	for _, c := range charges {
		carried = append(carried, &entity.ChargeLogEntry{Service: c.Service, Quantity: c.Quantity, Price: c.Price})
	}
	for _, c := range carried {
		c.BaseSimple = entity.NewBaseSimple(now)
		c.HotelID = room.HotelID
		c.RoomID = room.ID
		c.StayID = primary.stayID
		c.Note = &note
		if err := tx.Charge.Create(ctx, c); err != nil {
			return nil, err
		}
	}

	if member.PaidAmount == 0 {
		return nil, nil
	}
	target := primary.room.FindStay(primary.stayID)
	if target == nil {
		return nil, notFound("stay " + primary.stayID)
	}
	target.PaidAmount += member.PaidAmount
	if err := writeRoom(ctx, tx, primary.room); err != nil {
		return nil, err
	}
	return primary.room, nil
}

func (s *stayService) ApplyDiscount(ctx context.Context, hotelID, roomID, stayID string, req *request.DiscountRequest) (stay *entity.Stay, err error) {
	ctx, finish := s.track(ctx, "stay.discount")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		return nil, err
	}
	if req.Type == string(entity.DiscountPercent) && req.Value > 100 {
		return nil, validationError("percent discount must be between 0 and 100")
	}

	var discount *entity.Discount
	if req.Value > 0 {
		discount = &entity.Discount{Type: entity.DiscountType(req.Type), Value: req.Value}
	}
	return s.updateStay(ctx, hotelID, roomID, stayID, func(st *entity.Stay) {
		st.Discount = discount
	})
}

func (s *stayService) RecordPayment(ctx context.Context, hotelID, roomID, stayID string, req *request.PaymentRequest) (stay *entity.Stay, err error) {
	ctx, finish := s.track(ctx, "stay.payment")
	defer func() { finish(OutcomeApplied, err) }()

	if err := checkRequest(req); err != nil {
		return nil, err
	}
	method := req.Method
	return s.updateStay(ctx, hotelID, roomID, stayID, func(st *entity.Stay) {
		st.PaidAmount += req.Amount
		st.PaymentMethod = &method
	})
}

// updateStay applies mutate to one embedded stay with a version-checked
// room write.
func (s *stayService) updateStay(ctx context.Context, hotelID, roomID, stayID string, mutate func(*entity.Stay)) (*entity.Stay, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, err
	}

	var (
		room    *entity.Room
		updated entity.Stay
	)
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		loaded, err := s.loadRoom(ctx, tx, hotelUUID, roomUUID)
		if err != nil {
			return err
		}
		stay := loaded.FindStay(stayID)
		if stay == nil {
			return notFound("stay " + stayID)
		}
		mutate(stay)
		if err := writeRoom(ctx, tx, loaded); err != nil {
			return err
		}
		room, updated = loaded, *stay
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, room)
	return &updated, nil
}

func outcomeOf(r *StayResult) Outcome {
	if r == nil {
		return OutcomeApplied
	}
	return r.Outcome
}
