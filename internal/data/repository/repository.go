package repository

import (
	"context"

	"hotel-pms/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Hotel   HotelRepository
	Room    RoomRepository
	Pointer ActiveStayRepository
	History CheckedOutStayRepository
	Task    ServiceTaskRepository
	Charge  ChargeRepository

	// Tx runs a unit of work against a transactional copy of the repositories.
	Tx TxRunner
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgxTxRunner{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Hotel:   NewHotelRepository(q, log),
		Room:    NewRoomRepository(q, log),
		Pointer: NewActiveStayRepository(q, log),
		History: NewCheckedOutStayRepository(q, log),
		Task:    NewServiceTaskRepository(q, log),
		Charge:  NewChargeRepository(q, log),
	}
}

// WithinTx commits fn's writes together or not at all. Calling it on a
// repository that is already transactional runs fn in the same transaction.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Tx.WithinTx(ctx, fn)
}

// Joined is a TxRunner for a repository that is already inside a
// transaction.
type Joined struct {
	Repo *Repository
}

func (j Joined) WithinTx(_ context.Context, fn func(tx *Repository) error) error {
	return fn(j.Repo)
}
