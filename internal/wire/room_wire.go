package wire

import (
	"hotel-pms/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireRoom expects r to be the /api/hotels/{hotelID} staff router
func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler, streamHandler *adaptor.StreamHandler) {
	r.Get("/rooms", roomHandler.ListRooms)
	r.Post("/rooms", roomHandler.CreateRoom) // capacity checked first
	r.Get("/rooms/stream", streamHandler.Rooms)
	r.Get("/rooms/{roomID}", roomHandler.GetRoom)
	r.Delete("/rooms/{roomID}", roomHandler.DeleteRoom)
	r.Patch("/rooms/{roomID}/status", roomHandler.UpdateStatus)

	r.Post("/rooms/{roomID}/out-of-order", roomHandler.AddOutOfOrder)
	r.Delete("/rooms/{roomID}/out-of-order/{blockID}", roomHandler.RemoveOutOfOrder)

	// GET /availability?from=2025-01-10&to=2025-01-12
	r.Get("/availability", roomHandler.Availability)

	// GET /tasks?status=Pending
	r.Get("/tasks", roomHandler.ListTasks)
}
