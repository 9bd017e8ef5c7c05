package repository

import (
	"context"
	"fmt"

	"hotel-pms/internal/data/entity"
	"hotel-pms/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ServiceTaskRepository interface {
	Create(ctx context.Context, task *entity.ServiceTask) error
	FindByHotel(ctx context.Context, hotelID uuid.UUID, status *entity.TaskStatus) ([]*entity.ServiceTask, error)
}

type serviceTaskRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewServiceTaskRepository(db database.Querier, log *zap.Logger) ServiceTaskRepository {
	return &serviceTaskRepository{
		db:  db,
		log: log.With(zap.String("repository", "service_task")),
	}
}

func (r *serviceTaskRepository) Create(ctx context.Context, task *entity.ServiceTask) error {
	query := `
		INSERT INTO service_tasks (id, hotel_id, room_id, room_number, stay_id, type,
		                           description, status, requested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.HotelID,
		task.RoomID,
		task.RoomNumber,
		task.StayID,
		task.Type,
		task.Description,
		task.Status,
		task.RequestedBy,
		task.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create service task",
			zap.Error(err),
			zap.String("room_number", task.RoomNumber),
		)
		return translateError(fmt.Errorf("create service task for room %s: %w", task.RoomNumber, err))
	}

	return nil
}

func (r *serviceTaskRepository) FindByHotel(ctx context.Context, hotelID uuid.UUID, status *entity.TaskStatus) ([]*entity.ServiceTask, error) {
	query := `
		SELECT id, hotel_id, room_id, room_number, stay_id, type,
		       description, status, requested_by, created_at
		FROM service_tasks
		WHERE hotel_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
	`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.db.Query(ctx, query, hotelID, statusArg)
	if err != nil {
		r.log.Error("Failed to list service tasks",
			zap.Error(err),
			zap.String("hotel_id", hotelID.String()),
		)
		return nil, translateError(fmt.Errorf("list service tasks for hotel %s: %w", hotelID, err))
	}
	defer rows.Close()

	var tasks []*entity.ServiceTask
	for rows.Next() {
		var task entity.ServiceTask
		err := rows.Scan(
			&task.ID,
			&task.HotelID,
			&task.RoomID,
			&task.RoomNumber,
			&task.StayID,
			&task.Type,
			&task.Description,
			&task.Status,
			&task.RequestedBy,
			&task.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan service task row", zap.Error(err))
			return nil, fmt.Errorf("scan service task row: %w", err)
		}
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}
