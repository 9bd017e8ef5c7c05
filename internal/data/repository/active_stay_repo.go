package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ActiveStayRepository interface {
	Create(ctx context.Context, pointer *entity.ActiveStayPointer) error
	FindByStayID(ctx context.Context, stayID string) (*entity.ActiveStayPointer, error)
	// Delete reports whether a pointer existed.
	Delete(ctx context.Context, stayID string) (bool, error)
}

type activeStayRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActiveStayRepository(db database.Querier, log *zap.Logger) ActiveStayRepository {
	return &activeStayRepository{
		db:  db,
		log: log.With(zap.String("repository", "active_stay")),
	}
}

func (r *activeStayRepository) Create(ctx context.Context, pointer *entity.ActiveStayPointer) error {
	query := `
		INSERT INTO active_stays (stay_id, hotel_id, room_id, room_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		pointer.StayID,
		pointer.HotelID,
		pointer.RoomID,
		pointer.RoomNumber,
		pointer.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create active stay pointer",
			zap.Error(err),
			zap.String("stay_id", pointer.StayID),
		)
		return translateError(fmt.Errorf("create active stay %s: %w", pointer.StayID, err))
	}

	return nil
}

func (r *activeStayRepository) FindByStayID(ctx context.Context, stayID string) (*entity.ActiveStayPointer, error) {
	query := `
		SELECT stay_id, hotel_id, room_id, room_number, created_at
		FROM active_stays
		WHERE stay_id = $1
	`

	var pointer entity.ActiveStayPointer
	err := r.db.QueryRow(ctx, query, stayID).Scan(
		&pointer.StayID,
		&pointer.HotelID,
		&pointer.RoomID,
		&pointer.RoomNumber,
		&pointer.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active stay pointer",
			zap.Error(err),
			zap.String("stay_id", stayID),
		)
		return nil, translateError(fmt.Errorf("find active stay %s: %w", stayID, err))
	}

	return &pointer, nil
}

func (r *activeStayRepository) Delete(ctx context.Context, stayID string) (bool, error) {
	query := `DELETE FROM active_stays WHERE stay_id = $1`

	tag, err := r.db.Exec(ctx, query, stayID)
	if err != nil {
		r.log.Error("Failed to delete active stay pointer",
			zap.Error(err),
			zap.String("stay_id", stayID),
		)
		return false, translateError(fmt.Errorf("delete active stay %s: %w", stayID, err))
	}

	return tag.RowsAffected() > 0, nil
}
