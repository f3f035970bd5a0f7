package runtime

import (
	"time"
)

// Date is a millisecond UTC instant with a fixed timezone offset used for
// display. Dates are value-copied.
type Date struct {
	Millis int64 // milliseconds since the Unix epoch, UTC
	Offset int   // display offset east of UTC, in minutes
}

// NewDate returns a date for the given time, keeping its zone offset.
func NewDate(t time.Time) Date {
	_, secs := t.Zone()
	return Date{Millis: t.UnixMilli(), Offset: secs / 60}
}

// ParseISODate parses an RFC3339 timestamp.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// Time returns the instant in the date's fixed zone.
func (d Date) Time() time.Time {
	return time.UnixMilli(d.Millis).In(time.FixedZone("", d.Offset*60))
}

// AddMillis returns the date shifted by ms milliseconds.
func (d Date) AddMillis(ms int64) Date {
	return Date{Millis: d.Millis + ms, Offset: d.Offset}
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool { return d.Millis < other.Millis }

func (d Date) Kind() Kind     { return KindDate }
func (d Date) String() string { return d.Time().Format(time.RFC3339) }
func (d Date) Truth() bool    { return true }
