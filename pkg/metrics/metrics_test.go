package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-pms/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: bad date", usecase.ErrValidation), "validation"},
		{fmt.Errorf("room %w", usecase.ErrNotFound), "not_found"},
		{usecase.ErrInvalidOrExpiredStay, "invalid_stay"},
		{fmt.Errorf("update: %w", usecase.ErrConflict), "conflict"},
		{usecase.ErrStayConflict, "rejected"},
		{usecase.ErrCapacityReached, "rejected"},
		{usecase.ErrOutstandingBalance, "rejected"},
		{usecase.ErrPermission, "permission"},
		{context.DeadlineExceeded, "canceled"},
		{errors.New("disk on fire"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestReporter_CountsOutcomesAndFailures(t *testing.T) {
	m := New("test")
	r := NewReporter(m, zap.NewNop())
	ctx := context.Background()

	r.Report(ctx, "stay.check_in", usecase.OutcomeApplied, nil)
	r.Report(ctx, "stay.check_in", usecase.OutcomeAlreadyCheckedIn, nil)
	r.Report(ctx, "stay.check_in", usecase.OutcomeApplied, fmt.Errorf("room %w", usecase.ErrRoomOccupied))

	body := scrape(t, m)
	assert.Contains(t, body, `test_engine_operations_total{operation="stay.check_in",outcome="applied"} 1`)
	assert.Contains(t, body, `test_engine_operations_total{operation="stay.check_in",outcome="already_checked_in"} 1`)
	assert.Contains(t, body, `test_engine_operations_total{operation="stay.check_in",outcome="failed"} 1`)
	assert.Contains(t, body, `test_engine_failures_total{kind="rejected",operation="stay.check_in"} 1`)
}

func TestMetrics_HTTPAndFeed(t *testing.T) {
	m := New("")
	m.ObserveHTTP("GET", "/api/hotels/{hotelID}/rooms", 200, 20*time.Millisecond)
	m.InFlight(1)
	m.RecordFeed("publish", nil)
	m.RecordFeed("receive", errors.New("bad json"))

	body := scrape(t, m)
	assert.Contains(t, body, `hotel_pms_http_requests_total{method="GET",route="/api/hotels/{hotelID}/rooms",status="200"} 1`)
	assert.Contains(t, body, `hotel_pms_http_requests_in_flight 1`)
	assert.Contains(t, body, `hotel_pms_room_feed_messages_total{direction="publish",result="ok"} 1`)
	assert.Contains(t, body, `hotel_pms_room_feed_messages_total{direction="receive",result="error"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
