package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, hotelID, roomID uuid.UUID) (*entity.Room, error)
	FindByNumber(ctx context.Context, hotelID uuid.UUID, number string) (*entity.Room, error)
	FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*entity.Room, error)
	// Update writes the room only if its stored version still equals
	// room.Version, then bumps room.Version. A stale version is ErrConflict.
	Update(ctx context.Context, room *entity.Room) error
	Delete(ctx context.Context, room *entity.Room) error
}

type roomRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRoomRepository(db database.Querier, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `
	id, hotel_id, number, category, status, stays, out_of_order,
	current_stay_id, guest_name, check_in_date, check_out_date,
	last_checkout_date, version, created_at, updated_at
`

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	stays, blocks, err := encodeRoomDocuments(room)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rooms (` + roomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if room.Version == 0 {
		room.Version = 1
	}
	_, err = r.db.Exec(ctx, query,
		room.ID,
		room.HotelID,
		room.Number,
		room.Category,
		room.Status,
		stays,
		blocks,
		room.CurrentStayID,
		room.GuestName,
		room.CheckInDate,
		room.CheckOutDate,
		room.LastCheckoutDate,
		room.Version,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create room",
			zap.Error(err),
			zap.String("hotel_id", room.HotelID.String()),
			zap.String("room_number", room.Number),
		)
		return translateError(fmt.Errorf("create room %s: %w", room.Number, err))
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, hotelID, roomID uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 AND id = $2`

	room, err := scanRoom(r.db.QueryRow(ctx, query, hotelID, roomID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by ID",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, translateError(fmt.Errorf("find room by ID %s: %w", roomID, err))
	}

	return room, nil
}

func (r *roomRepository) FindByNumber(ctx context.Context, hotelID uuid.UUID, number string) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 AND number = $2`

	room, err := scanRoom(r.db.QueryRow(ctx, query, hotelID, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by number",
			zap.Error(err),
			zap.String("room_number", number),
		)
		return nil, translateError(fmt.Errorf("find room by number %s: %w", number, err))
	}

	return room, nil
}

func (r *roomRepository) FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 ORDER BY number`

	rows, err := r.db.Query(ctx, query, hotelID)
	if err != nil {
		r.log.Error("Failed to list rooms",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, translateError(fmt.Errorf("list rooms for hotel %s: %w", hotelID, err))
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(fmt.Errorf("iterate room rows: %w", err))
	}

	return rooms, nil
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	stays, blocks, err := encodeRoomDocuments(room)
	if err != nil {
		return err
	}

	query := `
		UPDATE rooms
		SET category = $3, status = $4, stays = $5, out_of_order = $6,
		    current_stay_id = $7, guest_name = $8, check_in_date = $9,
		    check_out_date = $10, last_checkout_date = $11,
		    version = version + 1, updated_at = $12
		WHERE id = $1 AND version = $2
	`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query,
		room.ID,
		room.Version,
		room.Category,
		room.Status,
		stays,
		blocks,
		room.CurrentStayID,
		room.GuestName,
		room.CheckInDate,
		room.CheckOutDate,
		room.LastCheckoutDate,
		now,
	)
	if err != nil {
		r.log.Error("Failed to update room",
			zap.Error(err),
			zap.String("room_id", room.ID.String()),
		)
		return translateError(fmt.Errorf("update room %s: %w", room.Number, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update room %s at version %d: %w", room.Number, room.Version, ErrConflict)
	}

	room.Version++
	room.UpdatedAt = now
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, room *entity.Room) error {
	query := `DELETE FROM rooms WHERE id = $1 AND version = $2`

	tag, err := r.db.Exec(ctx, query, room.ID, room.Version)
	if err != nil {
		r.log.Error("Failed to delete room",
			zap.Error(err),
			zap.String("room_id", room.ID.String()),
		)
		return translateError(fmt.Errorf("delete room %s: %w", room.Number, err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete room %s at version %d: %w", room.Number, room.Version, ErrConflict)
	}

	return nil
}

func encodeRoomDocuments(room *entity.Room) ([]byte, []byte, error) {
	stays := room.Stays
	if stays == nil {
		stays = []entity.Stay{}
	}
	blocks := room.OutOfOrder
	if blocks == nil {
		blocks = []entity.OutOfOrderBlock{}
	}
	staysJSON, err := json.Marshal(stays)
	if err != nil {
		return nil, nil, fmt.Errorf("encode stays for room %s: %w", room.Number, err)
	}
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return nil, nil, fmt.Errorf("encode out-of-order blocks for room %s: %w", room.Number, err)
	}
	return staysJSON, blocksJSON, nil
}

func scanRoom(row pgx.Row) (*entity.Room, error) {
	var (
		room       entity.Room
		staysJSON  []byte
		blocksJSON []byte
	)
	err := row.Scan(
		&room.ID,
		&room.HotelID,
		&room.Number,
		&room.Category,
		&room.Status,
		&staysJSON,
		&blocksJSON,
		&room.CurrentStayID,
		&room.GuestName,
		&room.CheckInDate,
		&room.CheckOutDate,
		&room.LastCheckoutDate,
		&room.Version,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(staysJSON, &room.Stays); err != nil {
		return nil, fmt.Errorf("decode stays for room %s: %w", room.Number, err)
	}
	if err := json.Unmarshal(blocksJSON, &room.OutOfOrder); err != nil {
		return nil, fmt.Errorf("decode out-of-order blocks for room %s: %w", room.Number, err)
	}
	return &room, nil
}
