package domain

import (
	"fmt"
	"time"
)

// DayLayout is the ISO 8601 calendar date format accepted for every "day"
// parameter.
const DayLayout = "2006-01-02"

// DayBounds is the instant range of one calendar day in the reference zone.
// An instant t belongs to the day iff Start <= t < End.
type DayBounds struct {
	Day   string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on the day.
func (b DayBounds) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Last returns the final storable instant of the day. Timestamps are kept
// at microsecond precision.
func (b DayBounds) Last() time.Time {
	return b.End.Add(-time.Microsecond)
}

// ResolveDay parses a YYYY-MM-DD day in loc. End is computed with AddDate so
// days that cross a DST switch are 23 or 25 hours long.
func ResolveDay(day string, loc *time.Location) (DayBounds, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return DayBounds{}, fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	return DayBounds{
		Day:   day,
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}, nil
}

// DayResolver buckets instants into calendar days of one deployment-wide
// zone. Every service shares the same resolver so a record is always
// attributed to the same day.
type DayResolver struct {
	Location *time.Location
}

// NewDayResolver returns a resolver for loc, or for the server's local zone
// when loc is nil.
func NewDayResolver(loc *time.Location) DayResolver {
	if loc == nil {
		loc = time.Local
	}
	return DayResolver{Location: loc}
}

// Resolve parses day in the resolver's zone.
func (r DayResolver) Resolve(day string) (DayBounds, error) {
	return ResolveDay(day, r.Location)
}

// DayOf returns the calendar day t falls on.
func (r DayResolver) DayOf(t time.Time) string {
	return t.In(r.loc()).Format(DayLayout)
}

// Today returns the current calendar day.
func (r DayResolver) Today() string {
	return r.DayOf(time.Now())
}

// Now returns the current time in the resolver's zone.
func (r DayResolver) Now() time.Time {
	return time.Now().In(r.loc())
}

func (r DayResolver) loc() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
