package entity

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf returns the civil date of t (in t's own location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is the half-open interval [From, To) of civil dates.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: DateOf(from), To: DateOf(to)}
}

func ParseDateRange(from, to string) (DateRange, error) {
	f, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{From: f, To: t}, nil
}

func (r DateRange) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.To.After(r.From)
}

// Overlaps is strict so that a checkout day may be another stay's check-in day.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.From.Before(other.To) && r.To.After(other.From)
}

func (r DateRange) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(r.From) && d.Before(r.To)
}

func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}
	return int(r.To.Sub(r.From).Hours() / 24)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", FormatDate(r.From), FormatDate(r.To))
}
