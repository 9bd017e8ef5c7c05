package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	HotelIDKey contextKey = "hotel_id"
	StayIDKey  contextKey = "stay_id"
	ActorKey   contextKey = "actor"
)

const (
	ActorStaff = "staff"
	ActorGuest = "guest"
)

func SetHotelContext(ctx context.Context, hotelID uuid.UUID, actor string) context.Context {
	ctx = context.WithValue(ctx, HotelIDKey, hotelID)
	ctx = context.WithValue(ctx, ActorKey, actor)
	return ctx
}

func GetHotelIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	hotelID, ok := ctx.Value(HotelIDKey).(uuid.UUID)
	return hotelID, ok
}

// SetGuestContext attaches the resolved guest stay to the request context.
func SetGuestContext(ctx context.Context, hotelID uuid.UUID, stayID string) context.Context {
	ctx = SetHotelContext(ctx, hotelID, ActorGuest)
	return context.WithValue(ctx, StayIDKey, stayID)
}

func GetStayIDFromContext(ctx context.Context) (string, bool) {
	stayID, ok := ctx.Value(StayIDKey).(string)
	return stayID, ok
}
