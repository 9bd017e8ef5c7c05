package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, from, to string) DateRange {
	t.Helper()
	rng, err := ParseDateRange(from, to)
	require.NoError(t, err)
	return rng
}

func TestDateOf_KeepsCivilDateOfLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(late))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("10/03/2024")
	assert.Error(t, err)
}

func TestDateRange_OverlapsIsStrict(t *testing.T) {
	stay := mustRange(t, "2024-03-10", "2024-03-12")

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"back to back after", mustRange(t, "2024-03-12", "2024-03-14"), false},
		{"back to back before", mustRange(t, "2024-03-08", "2024-03-10"), false},
		{"inside", mustRange(t, "2024-03-10", "2024-03-11"), true},
		{"straddles checkout", mustRange(t, "2024-03-11", "2024-03-13"), true},
		{"covers", mustRange(t, "2024-03-01", "2024-03-20"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stay.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(stay))
		})
	}
}

func TestDateRange_ContainsIsHalfOpen(t *testing.T) {
	rng := mustRange(t, "2024-03-10", "2024-03-12")

	assert.True(t, rng.Contains(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rng.Contains(time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
}

func TestDateRange_Nights(t *testing.T) {
	assert.Equal(t, 2, mustRange(t, "2024-03-10", "2024-03-12").Nights())
	assert.Equal(t, 0, mustRange(t, "2024-03-12", "2024-03-10").Nights())
	assert.Equal(t, 0, mustRange(t, "2024-03-10", "2024-03-10").Nights())
	assert.False(t, DateRange{}.Valid())
}
