// Package memory is an in-process store with the same transactional
// contract as the Postgres repositories. A unit of work runs against a
// private copy of the state which replaces the live state only on success.
package memory

import (
	"context"
	"sort"
	"sync"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type state struct {
	hotels   map[uuid.UUID]*entity.Hotel
	rooms    map[uuid.UUID]*entity.Room
	pointers map[string]*entity.ActiveStayPointer
	history  map[string]*entity.CheckedOutStay
	tasks    []*entity.ServiceTask
	charges  []*entity.ChargeLogEntry
}

func newState() *state {
	return &state{
		hotels:   make(map[uuid.UUID]*entity.Hotel),
		rooms:    make(map[uuid.UUID]*entity.Room),
		pointers: make(map[string]*entity.ActiveStayPointer),
		history:  make(map[string]*entity.CheckedOutStay),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, h := range s.hotels {
		hotel := *h
		c.hotels[id] = &hotel
	}
	for id, r := range s.rooms {
		c.rooms[id] = r.Clone()
	}
	for id, p := range s.pointers {
		pointer := *p
		c.pointers[id] = &pointer
	}
	for id, h := range s.history {
		record := *h
		c.history[id] = &record
	}
	c.tasks = append([]*entity.ServiceTask(nil), s.tasks...)
	c.charges = append([]*entity.ChargeLogEntry(nil), s.charges...)
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	log   *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		state: newState(),
		log:   log.With(zap.String("repository", "memory")),
	}
}

// view is what each repository operates on. Outside a transaction it
// locks the store per call; inside one it owns a private state copy.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}

// NewRepository returns a repository set backed by a fresh store.
func NewRepository(log *zap.Logger) *repository.Repository {
	return NewStore(log).Repository()
}

func (s *Store) Repository() *repository.Repository {
	repo := repositories(&view{store: s})
	repo.Tx = s
	return repo
}

func repositories(v *view) *repository.Repository {
	return &repository.Repository{
		Hotel:   &hotelRepository{v},
		Room:    &roomRepository{v},
		Pointer: &activeStayRepository{v},
		History: &checkedOutStayRepository{v},
		Task:    &serviceTaskRepository{v},
		Charge:  &chargeRepository{v},
	}
}

// WithinTx serialises units of work. State changes made by fn become
// visible only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	txRepo := repositories(&view{store: s, tx: work})
	txRepo.Tx = repository.Joined{Repo: txRepo}

	if err := fn(txRepo); err != nil {
		s.log.Debug("Transaction rolled back", zap.Error(err))
		return err
	}
	s.state = work
	return nil
}

func sortedRooms(rooms map[uuid.UUID]*entity.Room, hotelID uuid.UUID) []*entity.Room {
	var out []*entity.Room
	for _, r := range rooms {
		if r.HotelID == hotelID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
