// internal/wire/wire.go
package wire

import (
	"net/http"
	"time"

	"hotel-pms/internal/adaptor"
	"hotel-pms/internal/data/repository"
	"hotel-pms/internal/usecase"
	"hotel-pms/pkg/feed"
	"hotel-pms/pkg/guestjwt"
	"hotel-pms/pkg/metrics"
	"hotel-pms/pkg/middleware"
	"hotel-pms/pkg/qrcode"
	"hotel-pms/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// RoomFeed is both ends of the live room feed.
type RoomFeed interface {
	usecase.RoomPublisher
	feed.Subscriber
}

type Deps struct {
	Metrics *metrics.Metrics
	Feed    RoomFeed
	// Clock overrides the wall clock; nil uses time.Now in APP_TIMEZONE.
	Clock func() time.Time
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, deps Deps, logger *zap.Logger) *App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(config.Metrics.Namespace)
	}
	if deps.Feed == nil {
		deps.Feed = feed.Nop{}
	}
	if deps.Clock == nil {
		loc := config.App.Location()
		deps.Clock = func() time.Time { return time.Now().In(loc) }
	}

	service := usecase.NewService(repo, usecase.Dependencies{
		Publisher: deps.Feed,
		Reporter:  metrics.NewReporter(deps.Metrics, logger),
		Clock:     deps.Clock,
	}, logger)

	tokens := guestjwt.NewManager(config.Guest.JWTSecret, time.Duration(config.Guest.ExpiryHours)*time.Hour)
	handler := adaptor.NewHandler(service, adaptor.Options{
		TxRetries:  config.App.TxRetries,
		PortalURL:  config.Guest.PortalURL,
		Tokens:     tokens,
		QR:         qrcode.NewGenerator(qrcode.WithSize(320)),
		Subscriber: deps.Feed,
	}, logger)

	router := setupRouter(handler, repo, tokens, deps.Metrics, config.CORS.AllowedOrigins, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *guestjwt.Manager,
	m *metrics.Metrics,
	allowedOrigins []string,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(allowedOrigins))

	// Apply routes
	wireHotel(r, handler.Hotel)
	wireGuest(r, handler.Guest, tokens, logger)

	// ==================== STAFF ROUTES ====================
	// Everything under one hotel requires that hotel's X-Hotel-Key
	r.Route("/api/hotels/{hotelID}", func(r chi.Router) {
		r.Use(middleware.HotelKey(repo.Hotel, logger))

		r.Get("/", handler.Hotel.GetHotel)
		wireRoom(r, handler.Room, handler.Stream)
		wireBooking(r, handler.Booking)
		wireStay(r, handler.Stay, handler.Billing, handler.Guest)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
