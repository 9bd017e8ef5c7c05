package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-pms/internal/data/entity"
	"hotel-pms/internal/data/repository"
	"hotel-pms/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcome distinguishes "done now" from "was already done". Neither is an
// error.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeAlreadyCheckedIn  Outcome = "already_checked_in"
	OutcomeAlreadyRemoved    Outcome = "already_removed"
	OutcomeAlreadyCheckedOut Outcome = "already_checked_out"
)

// Reporter receives the result of every mutating engine operation.
type Reporter interface {
	Report(ctx context.Context, operation string, outcome Outcome, err error)
}

// RoomPublisher fans a committed room snapshot out to live subscribers.
type RoomPublisher interface {
	PublishRoom(ctx context.Context, room *entity.Room) error
}

type Dependencies struct {
	Publisher RoomPublisher
	Reporter  Reporter
	// Clock supplies "now"; its location decides what "today" is.
	Clock func() time.Time
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, string, Outcome, error) {}

type nopPublisher struct{}

func (nopPublisher) PublishRoom(context.Context, *entity.Room) error { return nil }

const maxStayIDAttempts = 8

var tracer = otel.Tracer("hotel-pms/usecase")

// engine is the state shared by the services that mutate rooms.
type engine struct {
	repo      *repository.Repository
	log       *zap.Logger
	reporter  Reporter
	publisher RoomPublisher
	now       func() time.Time
	newStayID func(roomNumber string) string
}

func newEngine(repo *repository.Repository, deps Dependencies, log *zap.Logger) *engine {
	e := &engine{
		repo:      repo,
		log:       log,
		reporter:  deps.Reporter,
		publisher: deps.Publisher,
		now:       deps.Clock,
		newStayID: utils.GenerateStayID,
	}
	if e.reporter == nil {
		e.reporter = nopReporter{}
	}
	if e.publisher == nil {
		e.publisher = nopPublisher{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func (e *engine) today() time.Time {
	return entity.DateOf(e.now())
}

// track opens a span for a mutating operation. The returned func closes
// it and reports the result.
func (e *engine) track(ctx context.Context, operation string) (context.Context, func(Outcome, error)) {
	ctx, span := tracer.Start(ctx, operation, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, func(outcome Outcome, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("outcome", string(outcome)))
		}
		span.End()
		e.reporter.Report(ctx, operation, outcome, err)
	}
}

// publish is best effort; the write has already committed.
func (e *engine) publish(ctx context.Context, rooms ...*entity.Room) {
	for _, room := range rooms {
		if room == nil {
			continue
		}
		if err := e.publisher.PublishRoom(ctx, room); err != nil {
			e.log.Warn("Failed to publish room update",
				zap.Error(err),
				zap.String("room_id", room.ID.String()),
			)
		}
	}
}

func (e *engine) loadRoom(ctx context.Context, repo *repository.Repository, hotelID, roomID uuid.UUID) (*entity.Room, error) {
	room, err := repo.Room.FindByID(ctx, hotelID, roomID)
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, notFound("room")
	}
	return room, nil
}

// allocateStayID draws IDs until one is unused by the room, by any live
// pointer and by the archive. reserved holds IDs already handed out in the
// current unit of work.
func (e *engine) allocateStayID(ctx context.Context, repo *repository.Repository, room *entity.Room, reserved map[string]bool) (string, error) {
	for attempt := 0; attempt < maxStayIDAttempts; attempt++ {
		id := e.newStayID(room.Number)
		if reserved[id] || room.FindStay(id) != nil {
			continue
		}
		pointer, err := repo.Pointer.FindByStayID(ctx, id)
		if err != nil {
			return "", err
		}
		if pointer != nil {
			continue
		}
		archived, err := repo.History.ExistsByStayID(ctx, id)
		if err != nil {
			return "", err
		}
		if archived {
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("allocate stay ID for room %s: exhausted %d attempts", room.Number, maxStayIDAttempts)
}

// writeRoom checks the occupancy mirrors before a version-checked update.
func writeRoom(ctx context.Context, repo *repository.Repository, room *entity.Room) error {
	if err := room.CheckMirrors(); err != nil {
		return err
	}
	return repo.Room.Update(ctx, room)
}

func parseID(kind, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, validationError("invalid %s ID %q", kind, value)
	}
	return id, nil
}

// RetryOnConflict reruns fn while it fails with ErrConflict, up to retries
// extra attempts.
func RetryOnConflict(ctx context.Context, retries int, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for i := 0; i < retries && errors.Is(err, ErrConflict); i++ {
		if ctx.Err() != nil {
			return err
		}
		err = fn(ctx)
	}
	return err
}
