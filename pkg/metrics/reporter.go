package metrics

import (
	"context"
	"errors"

	"hotel-pms/internal/usecase"

	"go.uber.org/zap"
)

// Reporter implements usecase.Reporter with counters and a log line per
// failure.
type Reporter struct {
	metrics *Metrics
	log     *zap.Logger
}

func NewReporter(m *Metrics, log *zap.Logger) *Reporter {
	return &Reporter{metrics: m, log: log.With(zap.String("component", "reporter"))}
}

func (r *Reporter) Report(ctx context.Context, operation string, outcome usecase.Outcome, err error) {
	if err == nil {
		r.metrics.RecordOperation(operation, string(outcome))
		return
	}

	kind := ErrorKind(err)
	r.metrics.RecordOperation(operation, "failed")
	r.metrics.RecordFailure(operation, kind)

	switch kind {
	case "permission", "internal":
		r.log.Error("Engine operation failed",
			zap.String("operation", operation),
			zap.String("kind", kind),
			zap.Error(err),
		)
	default:
		r.log.Debug("Engine operation rejected",
			zap.String("operation", operation),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

// ErrorKind buckets an engine error into a low-cardinality label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return "validation"
	case errors.Is(err, usecase.ErrNotFound):
		return "not_found"
	case errors.Is(err, usecase.ErrInvalidOrExpiredStay):
		return "invalid_stay"
	case errors.Is(err, usecase.ErrConflict):
		return "conflict"
	case errors.Is(err, usecase.ErrStayConflict), errors.Is(err, usecase.ErrDuplicateRoom),
		errors.Is(err, usecase.ErrRoomOccupied), errors.Is(err, usecase.ErrCapacityReached),
		errors.Is(err, usecase.ErrOutstandingBalance):
		return "rejected"
	case errors.Is(err, usecase.ErrPermission):
		return "permission"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
