package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"

	"github.com/google/uuid"
)

type hotelRepository struct{ v *view }

func (r *hotelRepository) Create(_ context.Context, hotel *entity.Hotel) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.hotels[hotel.ID]; ok {
			return fmt.Errorf("create hotel %s: %w", hotel.ID, repository.ErrDuplicate)
		}
		h := *hotel
		st.hotels[hotel.ID] = &h
		return nil
	})
}

func (r *hotelRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Hotel, error) {
	var out *entity.Hotel
	err := r.v.do(func(st *state) error {
		if h, ok := st.hotels[id]; ok {
			hotel := *h
			out = &hotel
		}
		return nil
	})
	return out, err
}

func (r *hotelRepository) AdjustRoomCount(_ context.Context, id uuid.UUID, delta int) error {
	return r.v.do(func(st *state) error {
		h, ok := st.hotels[id]
		if !ok {
			return fmt.Errorf("adjust room count: hotel %s not found", id)
		}
		if h.RoomCount+delta < 0 {
			return fmt.Errorf("adjust room count for hotel %s: %w", id, repository.ErrPermission)
		}
		h.RoomCount += delta
		h.UpdatedAt = time.Now()
		return nil
	})
}

type roomRepository struct{ v *view }

func (r *roomRepository) Create(_ context.Context, room *entity.Room) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.rooms[room.ID]; ok {
			return fmt.Errorf("create room %s: %w", room.Number, repository.ErrDuplicate)
		}
		for _, existing := range st.rooms {
			if existing.HotelID == room.HotelID && existing.Number == room.Number {
				return fmt.Errorf("create room %s: %w", room.Number, repository.ErrDuplicate)
			}
		}
		if room.Version == 0 {
			room.Version = 1
		}
		st.rooms[room.ID] = room.Clone()
		return nil
	})
}

func (r *roomRepository) FindByID(_ context.Context, hotelID, roomID uuid.UUID) (*entity.Room, error) {
	var out *entity.Room
	err := r.v.do(func(st *state) error {
		if room, ok := st.rooms[roomID]; ok && room.HotelID == hotelID {
			out = room.Clone()
		}
		return nil
	})
	return out, err
}

func (r *roomRepository) FindByNumber(_ context.Context, hotelID uuid.UUID, number string) (*entity.Room, error) {
	var out *entity.Room
	err := r.v.do(func(st *state) error {
		for _, room := range st.rooms {
			if room.HotelID == hotelID && room.Number == number {
				out = room.Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *roomRepository) FindByHotel(_ context.Context, hotelID uuid.UUID) ([]*entity.Room, error) {
	var out []*entity.Room
	err := r.v.do(func(st *state) error {
		out = sortedRooms(st.rooms, hotelID)
		return nil
	})
	return out, err
}

func (r *roomRepository) Update(_ context.Context, room *entity.Room) error {
	return r.v.do(func(st *state) error {
		stored, ok := st.rooms[room.ID]
		if !ok || stored.Version != room.Version {
			return fmt.Errorf("update room %s at version %d: %w", room.Number, room.Version, repository.ErrConflict)
		}
		room.Version++
		room.UpdatedAt = time.Now()
		st.rooms[room.ID] = room.Clone()
		return nil
	})
}

func (r *roomRepository) Delete(_ context.Context, room *entity.Room) error {
	return r.v.do(func(st *state) error {
		stored, ok := st.rooms[room.ID]
		if !ok || stored.Version != room.Version {
			return fmt.Errorf("delete room %s at version %d: %w", room.Number, room.Version, repository.ErrConflict)
		}
		delete(st.rooms, room.ID)
		return nil
	})
}

type activeStayRepository struct{ v *view }

func (r *activeStayRepository) Create(_ context.Context, pointer *entity.ActiveStayPointer) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.pointers[pointer.StayID]; ok {
			return fmt.Errorf("create active stay %s: %w", pointer.StayID, repository.ErrDuplicate)
		}
		p := *pointer
		st.pointers[pointer.StayID] = &p
		return nil
	})
}

func (r *activeStayRepository) FindByStayID(_ context.Context, stayID string) (*entity.ActiveStayPointer, error) {
	var out *entity.ActiveStayPointer
	err := r.v.do(func(st *state) error {
		if p, ok := st.pointers[stayID]; ok {
			pointer := *p
			out = &pointer
		}
		return nil
	})
	return out, err
}

func (r *activeStayRepository) Delete(_ context.Context, stayID string) (bool, error) {
	var existed bool
	err := r.v.do(func(st *state) error {
		_, existed = st.pointers[stayID]
		delete(st.pointers, stayID)
		return nil
	})
	return existed, err
}

type checkedOutStayRepository struct{ v *view }

func (r *checkedOutStayRepository) Create(_ context.Context, record *entity.CheckedOutStay) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.history[record.StayID]; ok {
			return fmt.Errorf("archive stay %s: %w", record.StayID, repository.ErrDuplicate)
		}
		rec := *record
		rec.FinalBill.Services = append([]entity.BillItem(nil), record.FinalBill.Services...)
		st.history[record.StayID] = &rec
		return nil
	})
}

func (r *checkedOutStayRepository) FindByStayID(_ context.Context, hotelID uuid.UUID, stayID string) (*entity.CheckedOutStay, error) {
	var out *entity.CheckedOutStay
	err := r.v.do(func(st *state) error {
		if rec, ok := st.history[stayID]; ok && rec.HotelID == hotelID {
			record := *rec
			out = &record
		}
		return nil
	})
	return out, err
}

func (r *checkedOutStayRepository) ExistsByStayID(_ context.Context, stayID string) (bool, error) {
	var exists bool
	err := r.v.do(func(st *state) error {
		_, exists = st.history[stayID]
		return nil
	})
	return exists, err
}

func (r *checkedOutStayRepository) FindByHotel(_ context.Context, hotelID uuid.UUID, limit, offset int) ([]*entity.CheckedOutStay, error) {
	var out []*entity.CheckedOutStay
	err := r.v.do(func(st *state) error {
		var all []*entity.CheckedOutStay
		for _, rec := range st.history {
			if rec.HotelID == hotelID {
				record := *rec
				all = append(all, &record)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CheckedOutAt.After(all[j].CheckedOutAt) })
		if offset >= len(all) {
			return nil
		}
		end := len(all)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		out = all[offset:end]
		return nil
	})
	return out, err
}

func (r *checkedOutStayRepository) CountByHotel(_ context.Context, hotelID uuid.UUID) (int64, error) {
	var count int64
	err := r.v.do(func(st *state) error {
		for _, rec := range st.history {
			if rec.HotelID == hotelID {
				count++
			}
		}
		return nil
	})
	return count, err
}

type serviceTaskRepository struct{ v *view }

func (r *serviceTaskRepository) Create(_ context.Context, task *entity.ServiceTask) error {
	return r.v.do(func(st *state) error {
		t := *task
		st.tasks = append(st.tasks, &t)
		return nil
	})
}

func (r *serviceTaskRepository) FindByHotel(_ context.Context, hotelID uuid.UUID, status *entity.TaskStatus) ([]*entity.ServiceTask, error) {
	var out []*entity.ServiceTask
	err := r.v.do(func(st *state) error {
		for i := len(st.tasks) - 1; i >= 0; i-- {
			t := st.tasks[i]
			if t.HotelID != hotelID || (status != nil && t.Status != *status) {
				continue
			}
			task := *t
			out = append(out, &task)
		}
		return nil
	})
	return out, err
}

type chargeRepository struct{ v *view }

func (r *chargeRepository) Create(_ context.Context, charge *entity.ChargeLogEntry) error {
	return r.v.do(func(st *state) error {
		c := *charge
		st.charges = append(st.charges, &c)
		return nil
	})
}

func (r *chargeRepository) FindByStayID(_ context.Context, hotelID uuid.UUID, stayID string) ([]*entity.ChargeLogEntry, error) {
	var out []*entity.ChargeLogEntry
	err := r.v.do(func(st *state) error {
		for _, c := range st.charges {
			if c.HotelID == hotelID && c.StayID == stayID {
				charge := *c
				out = append(out, &charge)
			}
		}
		return nil
	})
	return out, err
}
