package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CheckedOutStayRepository interface {
	Create(ctx context.Context, record *entity.CheckedOutStay) error
	FindByStayID(ctx context.Context, hotelID uuid.UUID, stayID string) (*entity.CheckedOutStay, error)
	ExistsByStayID(ctx context.Context, stayID string) (bool, error)
	FindByHotel(ctx context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.CheckedOutStay, error)
	CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error)
}

type checkedOutStayRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCheckedOutStayRepository(db database.Querier, log *zap.Logger) CheckedOutStayRepository {
	return &checkedOutStayRepository{
		db:  db,
		log: log.With(zap.String("repository", "checked_out_stay")),
	}
}

const checkedOutColumns = `
	id, hotel_id, room_id, room_number, stay_id, guest_name, guest_number,
	check_in, check_out, checked_out_at, billed_to_company, company_name,
	group_master_stay_id, forced, final_bill, created_at
`

func (r *checkedOutStayRepository) Create(ctx context.Context, record *entity.CheckedOutStay) error {
	bill, err := json.Marshal(record.FinalBill)
	if err != nil {
		return fmt.Errorf("encode final bill for stay %s: %w", record.StayID, err)
	}

	query := `
		INSERT INTO checked_out_stays (` + checkedOutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = r.db.Exec(ctx, query,
		record.ID,
		record.HotelID,
		record.RoomID,
		record.RoomNumber,
		record.StayID,
		record.GuestName,
		record.GuestNumber,
		record.CheckIn,
		record.CheckOut,
		record.CheckedOutAt,
		record.BilledToCompany,
		record.CompanyName,
		record.GroupMasterStayID,
		record.Forced,
		bill,
		record.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to archive stay",
			zap.Error(err),
			zap.String("stay_id", record.StayID),
		)
		return translateError(fmt.Errorf("archive stay %s: %w", record.StayID, err))
	}

	return nil
}

func (r *checkedOutStayRepository) FindByStayID(ctx context.Context, hotelID uuid.UUID, stayID string) (*entity.CheckedOutStay, error) {
	query := `SELECT ` + checkedOutColumns + ` FROM checked_out_stays WHERE hotel_id = $1 AND stay_id = $2`

	record, err := scanCheckedOutStay(r.db.QueryRow(ctx, query, hotelID, stayID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find archived stay",
			zap.Error(err),
			zap.String("stay_id", stayID),
		)
		return nil, translateError(fmt.Errorf("find archived stay %s: %w", stayID, err))
	}

	return record, nil
}

func (r *checkedOutStayRepository) ExistsByStayID(ctx context.Context, stayID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM checked_out_stays WHERE stay_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, stayID).Scan(&exists); err != nil {
		r.log.Error("Failed to check archived stay", zap.Error(err), zap.String("stay_id", stayID))
		return false, translateError(fmt.Errorf("check archived stay %s: %w", stayID, err))
	}

	return exists, nil
}

func (r *checkedOutStayRepository) FindByHotel(ctx context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.CheckedOutStay, error) {
	query := `
		SELECT ` + checkedOutColumns + `
		FROM checked_out_stays
		WHERE hotel_id = $1
		ORDER BY checked_out_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, hotelID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list archived stays",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, translateError(fmt.Errorf("list archived stays for hotel %s: %w", hotelID, err))
	}
	defer rows.Close()

	var records []*entity.CheckedOutStay
	for rows.Next() {
		record, err := scanCheckedOutStay(rows)
		if err != nil {
			r.log.Error("Failed to scan archived stay row", zap.Error(err))
			return nil, fmt.Errorf("scan archived stay row: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *checkedOutStayRepository) CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM checked_out_stays WHERE hotel_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, hotelID).Scan(&count); err != nil {
		r.log.Error("Failed to count archived stays",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return 0, translateError(fmt.Errorf("count archived stays for hotel %s: %w", hotelID, err))
	}

	return count, nil
}

func scanCheckedOutStay(row pgx.Row) (*entity.CheckedOutStay, error) {
	var (
		record entity.CheckedOutStay
		bill   []byte
	)
	err := row.Scan(
		&record.ID,
		&record.HotelID,
		&record.RoomID,
		&record.RoomNumber,
		&record.StayID,
		&record.GuestName,
		&record.GuestNumber,
		&record.CheckIn,
		&record.CheckOut,
		&record.CheckedOutAt,
		&record.BilledToCompany,
		&record.CompanyName,
		&record.GroupMasterStayID,
		&record.Forced,
		&bill,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bill, &record.FinalBill); err != nil {
		return nil, fmt.Errorf("decode final bill for stay %s: %w", record.StayID, err)
	}
	return &record, nil
}
