package repository

import (
	"context"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChargeRepository interface {
	Create(ctx context.Context, charge *entity.ChargeLogEntry) error
	FindByStayID(ctx context.Context, hotelID uuid.UUID, stayID string) ([]*entity.ChargeLogEntry, error)
}

type chargeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewChargeRepository(db database.Querier, log *zap.Logger) ChargeRepository {
	return &chargeRepository{
		db:  db,
		log: log.With(zap.String("repository", "charge")),
	}
}

func (r *chargeRepository) Create(ctx context.Context, charge *entity.ChargeLogEntry) error {
	query := `
		INSERT INTO charge_logs (id, hotel_id, room_id, stay_id, service, quantity, price, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		charge.ID,
		charge.HotelID,
		charge.RoomID,
		charge.StayID,
		charge.Service,
		charge.Quantity,
		charge.Price,
		charge.Note,
		charge.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to log charge",
			zap.Error(err),
			zap.String("stay_id", charge.StayID),
			zap.String("service", charge.Service),
		)
		return translateError(fmt.Errorf("log charge for stay %s: %w", charge.StayID, err))
	}

	return nil
}

func (r *chargeRepository) FindByStayID(ctx context.Context, hotelID uuid.UUID, stayID string) ([]*entity.ChargeLogEntry, error) {
	query := `
		SELECT id, hotel_id, room_id, stay_id, service, quantity, price, note, created_at
		FROM charge_logs
		WHERE hotel_id = $1 AND stay_id = $2
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, hotelID, stayID)
	if err != nil {
		r.log.Error("Failed to list charges",
			zap.Error(err),
			zap.String("stay_id", stayID),
		)
		return nil, translateError(fmt.Errorf("list charges for stay %s: %w", stayID, err))
	}
	defer rows.Close()

	var charges []*entity.ChargeLogEntry
	for rows.Next() {
		var charge entity.ChargeLogEntry
		err := rows.Scan(
			&charge.ID,
			&charge.HotelID,
			&charge.RoomID,
			&charge.StayID,
			&charge.Service,
			&charge.Quantity,
			&charge.Price,
			&charge.Note,
			&charge.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan charge row", zap.Error(err))
			return nil, fmt.Errorf("scan charge row: %w", err)
		}
		charges = append(charges, &charge)
	}

	return charges, rows.Err()
}
