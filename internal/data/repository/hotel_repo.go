package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *entity.Hotel) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error)
	AdjustRoomCount(ctx context.Context, id uuid.UUID, delta int) error
}

type hotelRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewHotelRepository(db database.Querier, log *zap.Logger) HotelRepository {
	return &hotelRepository{
		db:  db,
		log: log.With(zap.String("repository", "hotel")),
	}
}

func (r *hotelRepository) Create(ctx context.Context, hotel *entity.Hotel) error {
	query := `
		INSERT INTO hotels (id, name, max_rooms, room_count, gst_rate, service_charge_rate,
		                    currency, staff_key_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.MaxRooms,
		hotel.RoomCount,
		hotel.GSTRate,
		hotel.ServiceChargeRate,
		hotel.Currency,
		hotel.StaffKeyHash,
		hotel.CreatedAt,
		hotel.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create hotel",
			zap.Error(err),
			zap.String("hotel_id", hotel.ID.String()),
		)
		return translateError(fmt.Errorf("create hotel %s: %w", hotel.ID, err))
	}

	return nil
}

func (r *hotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hotel, error) {
	query := `
		SELECT id, name, max_rooms, room_count, gst_rate, service_charge_rate,
		       currency, staff_key_hash, created_at, updated_at
		FROM hotels
		WHERE id = $1
	`

	var hotel entity.Hotel
	err := r.db.QueryRow(ctx, query, id).Scan(
		&hotel.ID,
		&hotel.Name,
		&hotel.MaxRooms,
		&hotel.RoomCount,
		&hotel.GSTRate,
		&hotel.ServiceChargeRate,
		&hotel.Currency,
		&hotel.StaffKeyHash,
		&hotel.CreatedAt,
		&hotel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hotel by ID",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
		)
		return nil, translateError(fmt.Errorf("find hotel by ID %s: %w", id, err))
	}

	return &hotel, nil
}

func (r *hotelRepository) AdjustRoomCount(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE hotels
		SET room_count = room_count + $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust room count",
			zap.Error(err),
			zap.String("hotel_id", id.String()),
			zap.Int("delta", delta),
		)
		return translateError(fmt.Errorf("adjust room count for hotel %s: %w", id, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adjust room count: hotel %s not found", id)
	}

	return nil
}
