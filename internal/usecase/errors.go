package usecase

import (
	"errors"
	"fmt"

	"hotel-pms/internal/data/repository"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrStayConflict         = errors.New("dates overlap an existing stay or out-of-order block")
	ErrInvalidOrExpiredStay = errors.New("invalid or expired stay")
	ErrCapacityReached      = errors.New("room capacity reached")
	ErrRoomOccupied         = errors.New("room is occupied")
	ErrOutstandingBalance   = errors.New("outstanding balance")
	ErrDuplicateRoom        = errors.New("room number already exists")

	// ErrConflict is a lost optimistic-concurrency race. Nothing was
	// written; the caller may retry the whole operation.
	ErrConflict = repository.ErrConflict
	// ErrPermission is a store rejection. Nothing was written.
	ErrPermission = repository.ErrPermission
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
