package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict means a concurrent writer changed the record first. The
	// whole unit of work may be retried.
	ErrConflict = errors.New("concurrent modification")
	// ErrPermission means the store rejected the write outright.
	ErrPermission = errors.New("write rejected by store")
	ErrDuplicate  = errors.New("duplicate record")
)

// translateError maps driver failures onto the repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "40001", "40P01":
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case "23505":
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case "42501", "23502", "23503", "23514":
		return fmt.Errorf("%w: %w", ErrPermission, err)
	}
	return err
}
