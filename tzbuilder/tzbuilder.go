// Package tzbuilder defines the interface between the tzdata compiler and
// the component that accumulates standard offsets, recurring daylight
// saving rules and cutovers into a queryable time zone.
//
// The compiler only emits instructions through Builder and inspects the
// result through TimeZone; how the timeline is actually assembled and
// stored is up to the implementation.
package tzbuilder

import (
	"io"
	"time"
)

// Clock identifies the time base a time-of-day value is measured against.
type Clock byte

const (
	// ClockWall means local (wall clock) time, the default.
	ClockWall Clock = 'w'
	// ClockStandard means standard time without any daylight saving
	// adjustment.
	ClockStandard Clock = 's'
	// ClockUTC means universal time.
	ClockUTC Clock = 'u'
)

func (c Clock) String() string {
	switch c {
	case ClockWall:
		return "wall"
	case ClockStandard:
		return "standard"
	case ClockUTC:
		return "utc"
	default:
		return "<undefined>"
	}
}

// Builder receives the resolved contents of one zone, in timeline order.
//
// Day-of-week numbering is ISO: Monday=1 … Sunday=7; 0 means the day rule
// is a plain day of month. When dayOfMonth is -1 the rule means the last
// given weekday of the month. When advance is true the weekday is moved
// forward to the first occurrence on or after dayOfMonth, otherwise
// backward to the last occurrence on or before it.
type Builder interface {
	// SetStandardOffset sets the offset from UTC, in milliseconds,
	// that applies from the current point of the timeline on.
	SetStandardOffset(offsetMillis int)

	// SetFixedSavings applies a constant additional save on top of the
	// standard offset. The nameFormat is an abbreviation format as found
	// in a zone line's FORMAT column.
	SetFixedSavings(nameFormat string, saveMillis int)

	// AddRecurringSavings adds a yearly recurring save that is in effect
	// from fromYear through toYear inclusive. The nameKey is the final
	// abbreviation, already formatted.
	AddRecurringSavings(nameKey string, saveMillis, fromYear, toYear int, clock Clock, month time.Month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int)

	// AddCutover ends the current timeline segment at the given point of
	// the given year. Subsequent calls describe the next segment.
	AddCutover(year int, clock Clock, month time.Month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int)
}

// ZoneBuilder is a Builder that can be finalized into a TimeZone and
// serialized.
type ZoneBuilder interface {
	Builder

	// ToTimeZone finalizes the accumulated timeline under the given id.
	ToTimeZone(id string) (TimeZone, error)

	// WriteTo encodes the finalized timeline to w. Decoding the bytes
	// must yield a time zone observably equal to ToTimeZone(id).
	WriteTo(id string, w io.Writer) error
}

// TimeZone is a compiled, queryable time zone. Instants are Unix epoch
// milliseconds.
type TimeZone interface {
	// ID returns the stable identifier the zone was finalized under.
	ID() string

	// Offset returns the total offset from UTC in milliseconds at the
	// given instant.
	Offset(instant int64) int

	// StandardOffset returns the standard offset from UTC in
	// milliseconds at the given instant, excluding daylight saving.
	StandardOffset(instant int64) int

	// NameKey returns the abbreviation key in effect at the given
	// instant.
	NameKey(instant int64) string

	// NextTransition returns the instant of the first transition after
	// the given instant. Returning the argument signals that there is no
	// further transition.
	NextTransition(instant int64) int64

	// PreviousTransition returns the instant immediately before the
	// latest transition strictly before the given instant. Returning
	// the argument signals that there is no earlier transition.
	PreviousTransition(instant int64) int64
}
