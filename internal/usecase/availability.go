package usecase

import (
	"hotel-pms/internal/data/entity"
)

// FindAvailableRooms returns the rooms with no stay and no out-of-order
// block overlapping rng. Overlap is strict, so a stay ending on rng.From
// does not block it.
func FindAvailableRooms(rooms []*entity.Room, rng entity.DateRange) []*entity.Room {
	if !rng.Valid() {
		return nil
	}
	available := make([]*entity.Room, 0, len(rooms))
	for _, room := range rooms {
		if !room.Conflicts(rng, "") {
			available = append(available, room)
		}
	}
	return available
}
