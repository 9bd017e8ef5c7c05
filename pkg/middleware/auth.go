package middleware

import (
	"net/http"
	"strings"

	"hotel-pms/internal/data/repository"
	"hotel-pms/pkg/guestjwt"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HotelKeyHeader = "X-Hotel-Key"

// HotelKey checks the staff key of the hotel named by the {hotelID} route
// parameter.
func HotelKey(hotelRepo repository.HotelRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hotelID, err := uuid.Parse(chi.URLParam(r, "hotelID"))
			if err != nil {
				utils.ResponseBadRequest(w, "Invalid hotel ID", nil)
				return
			}

			key := r.Header.Get(HotelKeyHeader)
			if key == "" {
				utils.ResponseUnauthorized(w, "Missing hotel key")
				return
			}

			hotel, err := hotelRepo.FindByID(r.Context(), hotelID)
			if err != nil {
				logger.Error("Failed to load hotel for key check",
					zap.String("hotel_id", hotelID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if hotel == nil || !utils.CheckSecret(hotel.StaffKeyHash, key) {
				logger.Warn("Rejected hotel key",
					zap.String("hotel_id", hotelID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid hotel key")
				return
			}

			ctx := utils.SetHotelContext(r.Context(), hotelID, utils.ActorStaff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GuestSession validates a guest bearer token. The stay itself is
// re-resolved by the handler on every request.
func GuestSession(tokens *guestjwt.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Warn("Rejected guest token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			hotelID, err := uuid.Parse(claims.HotelID)
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetGuestContext(r.Context(), hotelID, claims.StayID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
