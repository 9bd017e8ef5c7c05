package usecase

import (
	"context"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BillingService interface {
	LiveBill(ctx context.Context, hotelID, roomID, stayID string) (*LiveBill, error)
	LiveInvoice(ctx context.Context, hotelID, roomID, stayID string) (string, error)
	ArchivedStay(ctx context.Context, hotelID, stayID string) (*entity.CheckedOutStay, string, error)
	History(ctx context.Context, hotelID string, req *request.PaginatedRequest) ([]*entity.CheckedOutStay, int64, error)
	LogCharge(ctx context.Context, hotelID, roomID, stayID string, req *request.LogChargeRequest) (*entity.ChargeLogEntry, error)
	ListCharges(ctx context.Context, hotelID, roomID, stayID string) ([]*entity.ChargeLogEntry, error)
}

type LiveBill struct {
	RoomID     uuid.UUID
	RoomNumber string
	Currency   string
	Stay       entity.Stay
	Summary    BillSummary
	// Consolidated lists the member stay IDs folded into a clubbed
	// primary's bill.
	Consolidated []string
}

type groupMember struct {
	room   *entity.Room
	stayID string
}

type computedBill struct {
	Hotel   *entity.Hotel
	Summary BillSummary
	Members []groupMember
	// Primary is set for a clubbed member whose primary stay is still on
	// the books and will carry the member's folio.
	Primary *groupMember
}

// billedElsewhere is the empty bill of a stay whose charges sit on another
// stay's bill.
func billedElsewhere(stay entity.Stay, billedTo string, tax TaxConfig) BillSummary {
	empty := stay
	empty.RoomCharge = 0
	empty.PaidAmount = 0
	empty.Discount = nil
	summary := ComputeBill(empty, nil, tax)
	summary.BilledTo = &billedTo
	return summary
}

// liveBill computes the current bill for a stay. A clubbed primary folds in
// its checked-in, unsettled members. A member bills nothing itself while
// its primary is on the books or once the primary has settled it.
func (e *engine) liveBill(ctx context.Context, repo *repository.Repository, room *entity.Room, stay entity.Stay) (*computedBill, error) {
	hotel, err := repo.Hotel.FindByID(ctx, room.HotelID)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, notFound("hotel")
	}
	tax := TaxConfigOf(hotel)

	if stay.SettledByStayID != nil {
		summary := billedElsewhere(stay, *stay.SettledByStayID, tax)
		return &computedBill{Hotel: hotel, Summary: summary}, nil
	}

	charges, err := repo.Charge.FindByStayID(ctx, room.HotelID, stay.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case stay.IsClubbedPrimary():
		rooms, err := repo.Room.FindByHotel(ctx, room.HotelID)
		if err != nil {
			return nil, err
		}
		var (
			members     []groupMember
			memberStays []entity.Stay
		)
		for _, r := range rooms {
			for _, s := range r.Stays {
				if s.ID == stay.ID || s.GroupMasterStayID == nil || *s.GroupMasterStayID != stay.ID {
					continue
				}
				if s.Status != entity.StayStatusCheckedIn || s.SettledByStayID != nil {
					continue
				}
				memberCharges, err := repo.Charge.FindByStayID(ctx, room.HotelID, s.ID)
				if err != nil {
					return nil, err
				}
				charges = append(charges, memberCharges...)
				members = append(members, groupMember{room: r, stayID: s.ID})
				memberStays = append(memberStays, s)
			}
		}
		if len(members) == 0 {
			return &computedBill{Hotel: hotel, Summary: ComputeBill(stay, charges, tax)}, nil
		}
		summary := ComputeClubbedBill(stay, memberStays, charges, tax)
		return &computedBill{Hotel: hotel, Summary: summary, Members: members}, nil

	case stay.IsClubbedMember():
		rooms, err := repo.Room.FindByHotel(ctx, room.HotelID)
		if err != nil {
			return nil, err
		}
		masterID := *stay.GroupMasterStayID
		for _, r := range rooms {
			if r.FindStay(masterID) != nil {
				return &computedBill{
					Hotel:   hotel,
					Summary: billedElsewhere(stay, masterID, tax),
					Primary: &groupMember{room: r, stayID: masterID},
				}, nil
			}
		}
		// the primary is gone, so the member settles on its own
		return &computedBill{Hotel: hotel, Summary: ComputeBill(stay, charges, tax)}, nil
	}

	return &computedBill{Hotel: hotel, Summary: ComputeBill(stay, charges, tax)}, nil
}

type billingService struct {
	*engine
}

func NewBillingService(repo *repository.Repository, deps Dependencies, log *zap.Logger) BillingService {
	return &billingService{
		engine: newEngine(repo, deps, log.With(zap.String("service", "billing"))),
	}
}

func (s *billingService) findStay(ctx context.Context, hotelID, roomID, stayID string) (*entity.Room, *entity.Stay, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, nil, err
	}
	roomUUID, err := parseID("room", roomID)
	if err != nil {
		return nil, nil, err
	}
	room, err := s.loadRoom(ctx, s.repo, hotelUUID, roomUUID)
	if err != nil {
		return nil, nil, err
	}
	stay := room.FindStay(stayID)
	if stay == nil {
		return nil, nil, notFound("stay " + stayID)
	}
	return room, stay, nil
}

func (s *billingService) LiveBill(ctx context.Context, hotelID, roomID, stayID string) (*LiveBill, error) {
	room, stay, err := s.findStay(ctx, hotelID, roomID, stayID)
	if err != nil {
		return nil, err
	}
	computed, err := s.liveBill(ctx, s.repo, room, *stay)
	if err != nil {
		return nil, fmt.Errorf("compute bill for stay %s: %w", stayID, err)
	}

	bill := &LiveBill{
		RoomID:     room.ID,
		RoomNumber: room.Number,
		Currency:   computed.Hotel.Currency,
		Stay:       *stay,
		Summary:    computed.Summary,
	}
	for _, m := range computed.Members {
		bill.Consolidated = append(bill.Consolidated, m.stayID)
	}
	return bill, nil
}

func (s *billingService) LiveInvoice(ctx context.Context, hotelID, roomID, stayID string) (string, error) {
	room, stay, err := s.findStay(ctx, hotelID, roomID, stayID)
	if err != nil {
		return "", err
	}
	computed, err := s.liveBill(ctx, s.repo, room, *stay)
	if err != nil {
		return "", fmt.Errorf("compute bill for stay %s: %w", stayID, err)
	}

	paymentMethod := ""
	if stay.PaymentMethod != nil {
		paymentMethod = *stay.PaymentMethod
	}
	final := NewFinalBill(computed.Summary.ToBillInput(paymentMethod))
	header := InvoiceHeader{
		HotelName:   computed.Hotel.Name,
		Currency:    computed.Hotel.Currency,
		RoomNumber:  room.Number,
		StayID:      stay.ID,
		GuestName:   stay.GuestName,
		CompanyName: stay.CompanyName,
		CheckIn:     stay.CheckIn,
		CheckOut:    stay.CheckOut,
		IssuedAt:    s.now(),
	}
	return RenderInvoice(header, final), nil
}

func (s *billingService) ArchivedStay(ctx context.Context, hotelID, stayID string) (*entity.CheckedOutStay, string, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, "", err
	}
	record, err := s.repo.History.FindByStayID(ctx, hotelUUID, stayID)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, "", notFound("archived stay " + stayID)
	}
	hotel, err := s.repo.Hotel.FindByID(ctx, hotelUUID)
	if err != nil {
		return nil, "", err
	}
	if hotel == nil {
		return nil, "", notFound("hotel")
	}

	header := InvoiceHeader{
		HotelName:   hotel.Name,
		Currency:    hotel.Currency,
		RoomNumber:  record.RoomNumber,
		StayID:      record.StayID,
		GuestName:   record.GuestName,
		CompanyName: record.CompanyName,
		CheckIn:     record.CheckIn,
		CheckOut:    record.CheckOut,
		IssuedAt:    record.CheckedOutAt,
	}
	return record, RenderInvoice(header, record.FinalBill), nil
}

func (s *billingService) History(ctx context.Context, hotelID string, req *request.PaginatedRequest) ([]*entity.CheckedOutStay, int64, error) {
	hotelUUID, err := parseID("hotel", hotelID)
	if err != nil {
		return nil, 0, err
	}
	if err := checkRequest(req); err != nil {
		return nil, 0, err
	}

	records, err := s.repo.History.FindByHotel(ctx, hotelUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.History.CountByHotel(ctx, hotelUUID)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *billingService) LogCharge(ctx context.Context, hotelID, roomID, stayID string, req *request.LogChargeRequest) (*entity.ChargeLogEntry, error) {
	if err := checkRequest(req); err != nil {
		s.log.Warn("Log charge validation failed", zap.Error(err))
		return nil, err
	}
	room, stay, err := s.findStay(ctx, hotelID, roomID, stayID)
	if err != nil {
		return nil, err
	}
	if stay.Status != entity.StayStatusCheckedIn {
		return nil, validationError("charges can only be posted to a checked-in stay")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	charge := &entity.ChargeLogEntry{
		BaseSimple: entity.NewBaseSimple(s.now()),
		HotelID:    room.HotelID,
		RoomID:     room.ID,
		StayID:     stay.ID,
		Service:    req.Service,
		Quantity:   quantity,
		Price:      req.Price,
		Note:       req.Note,
	}
	if err := s.repo.Charge.Create(ctx, charge); err != nil {
		return nil, err
	}

	s.log.Info("Charge posted",
		zap.String("stay_id", stay.ID),
		zap.String("service", charge.Service),
		zap.Float64("price", charge.Price),
	)
	return charge, nil
}

func (s *billingService) ListCharges(ctx context.Context, hotelID, roomID, stayID string) ([]*entity.ChargeLogEntry, error) {
	room, stay, err := s.findStay(ctx, hotelID, roomID, stayID)
	if err != nil {
		return nil, err
	}
	return s.repo.Charge.FindByStayID(ctx, room.HotelID, stay.ID)
}
