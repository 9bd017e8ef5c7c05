package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seed(t *testing.T, repo *repository.Repository) (*entity.Hotel, *entity.Room) {
	t.Helper()
	ctx := context.Background()
	hotel := &entity.Hotel{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: "Seaside"}
	require.NoError(t, repo.Hotel.Create(ctx, hotel))
	room := &entity.Room{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		HotelID:      hotel.ID,
		Number:       "101",
		Status:       entity.RoomStatusAvailable,
	}
	require.NoError(t, repo.Room.Create(ctx, room))
	return hotel, room
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, room := seed(t, repo)
	boom := errors.New("boom")

	err := repo.WithinTx(ctx, func(tx *repository.Repository) error {
		loaded, err := tx.Room.FindByID(ctx, hotel.ID, room.ID)
		require.NoError(t, err)
		loaded.Status = entity.RoomStatusCleaning
		require.NoError(t, tx.Room.Update(ctx, loaded))
		require.NoError(t, tx.Pointer.Create(ctx, &entity.ActiveStayPointer{StayID: "101-aaaaaa", HotelID: hotel.ID, RoomID: room.ID}))
		require.NoError(t, tx.Hotel.AdjustRoomCount(ctx, hotel.ID, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusAvailable, stored.Status)
	assert.EqualValues(t, 1, stored.Version)

	pointer, err := repo.Pointer.FindByStayID(ctx, "101-aaaaaa")
	require.NoError(t, err)
	assert.Nil(t, pointer)

	h, err := repo.Hotel.FindByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Zero(t, h.RoomCount)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, room := seed(t, repo)

	err := repo.WithinTx(ctx, func(tx *repository.Repository) error {
		loaded, err := tx.Room.FindByID(ctx, hotel.ID, room.ID)
		if err != nil {
			return err
		}
		loaded.Status = entity.RoomStatusCleaning
		if err := tx.Room.Update(ctx, loaded); err != nil {
			return err
		}
		// nested units of work join the outer one
		return tx.WithinTx(ctx, func(inner *repository.Repository) error {
			return inner.Hotel.AdjustRoomCount(ctx, hotel.ID, 1)
		})
	})
	require.NoError(t, err)

	stored, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusCleaning, stored.Status)
	assert.EqualValues(t, 2, stored.Version)

	h, err := repo.Hotel.FindByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.RoomCount)
}

func TestWithinTx_CanceledContext(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.WithinTx(ctx, func(*repository.Repository) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRoomUpdate_StaleVersionConflicts(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, room := seed(t, repo)

	first, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	second, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)

	first.Category = "Suite"
	require.NoError(t, repo.Room.Update(ctx, first))

	second.Category = "Standard"
	assert.ErrorIs(t, repo.Room.Update(ctx, second), repository.ErrConflict)
	assert.ErrorIs(t, repo.Room.Delete(ctx, second), repository.ErrConflict)

	stored, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Suite", stored.Category)
}

func TestRoomReads_AreCopies(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, room := seed(t, repo)

	loaded, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	loaded.Stays = append(loaded.Stays, entity.Stay{ID: "101-aaaaaa"})

	stored, err := repo.Room.FindByID(ctx, hotel.ID, room.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Stays)

	other, err := repo.Room.FindByID(ctx, uuid.New(), room.ID)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRoomCreate_DuplicateNumber(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, _ := seed(t, repo)

	err := repo.Room.Create(ctx, &entity.Room{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, HotelID: hotel.ID, Number: "101"})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestHistory_PagesNewestFirst(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, room := seed(t, repo)
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"101-aaaaaa", "101-bbbbbb", "101-cccccc"} {
		require.NoError(t, repo.History.Create(ctx, &entity.CheckedOutStay{
			BaseSimple:   entity.BaseSimple{ID: uuid.New()},
			HotelID:      hotel.ID,
			RoomID:       room.ID,
			StayID:       id,
			CheckedOutAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	err := repo.History.Create(ctx, &entity.CheckedOutStay{HotelID: hotel.ID, StayID: "101-aaaaaa"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	page, err := repo.History.FindByHotel(ctx, hotel.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "101-cccccc", page[0].StayID)
	assert.Equal(t, "101-bbbbbb", page[1].StayID)

	page, err = repo.History.FindByHotel(ctx, hotel.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "101-aaaaaa", page[0].StayID)

	count, err := repo.History.CountByHotel(ctx, hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	exists, err := repo.History.ExistsByStayID(ctx, "101-bbbbbb")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAdjustRoomCount_NeverNegative(t *testing.T) {
	repo := NewRepository(zap.NewNop())
	ctx := context.Background()
	hotel, _ := seed(t, repo)

	assert.ErrorIs(t, repo.Hotel.AdjustRoomCount(ctx, hotel.ID, -1), repository.ErrPermission)
}
