package tzdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-zoneinfo/zic/tzbuilder"
)

// DateTimeOfYear is a moment within an unspecified year: the IN/ON/AT
// columns of a Rule line, or the trailing date of a zone UNTIL field.
type DateTimeOfYear struct {
	Month time.Month

	// Day is the day of month, or -1 together with a Weekday for the
	// last such weekday of the month.
	Day int

	// Weekday is an ISO day number, Monday=1 through Sunday=7, or 0
	// when the date names a plain day of month.
	Weekday int

	// Advance selects the first Weekday on or after Day rather than
	// the last one on or before it.
	Advance bool

	MillisOfDay int
	Clock       tzbuilder.Clock
}

// StartOfYear is the implied date of an UNTIL field that names only a
// year: midnight wall time on January 1st.
var StartOfYear = DateTimeOfYear{Month: time.January, Day: 1, Clock: tzbuilder.ClockWall}

// parseDateTimeOfYear consumes up to three fields from c, stopping early
// at end of line. Missing fields default to the start of the year.
func parseDateTimeOfYear(c *cursor) (DateTimeOfYear, error) {
	d := StartOfYear

	if !c.more() {
		return d, nil
	}
	f, _ := c.next()
	month, err := parseMonth(f)
	if err != nil {
		return d, err
	}
	d.Month = month

	if !c.more() {
		return d, nil
	}
	f, _ = c.next()
	if err := d.parseDay(f); err != nil {
		return d, err
	}

	if !c.more() {
		return d, nil
	}
	f, _ = c.next()
	return d, d.parseAt(f)
}

// parseDay handles the ON forms: a plain day number, "lastSun" and
// friends, and the "Sun>=8" / "Sun<=25" comparisons.
func (d *DateTimeOfYear) parseDay(s string) error {
	l := strings.ToLower(s)
	switch {
	case strings.HasPrefix(l, "last"):
		wd, err := parseWeekday(s[4:])
		if err != nil {
			return err
		}
		d.Day = -1
		d.Weekday = wd
		d.Advance = false
		return nil
	case strings.Contains(s, ">="), strings.Contains(s, "<="):
		advance := strings.Contains(s, ">=")
		i := strings.IndexAny(s, "<>")
		wd, err := parseWeekday(s[:i])
		if err != nil {
			return err
		}
		day, err := strconv.Atoi(s[i+2:])
		if err != nil {
			return fmt.Errorf("day %q: invalid", s)
		}
		d.Day = day
		d.Weekday = wd
		d.Advance = advance
		return nil
	default:
		day, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("day %q: invalid", s)
		}
		d.Day = day
		d.Weekday = 0
		return nil
	}
}

// parseAt handles the AT form: a time of day with an optional clock
// indicator suffix. "24:00" is normalized to an equivalent moment on an
// adjacent day so downstream arithmetic never sees an out-of-range hour.
func (d *DateTimeOfYear) parseAt(s string) error {
	d.Clock = parseClock(s[len(s)-1])
	s = trimClockSuffix(s)

	if s == "24:00" {
		if d.Month == time.December && d.Day == 31 {
			// The year's final instant; there is no next day to roll to.
			d.MillisOfDay = 24*3600*1000 - 1
			return nil
		}
		// Roll forward to midnight of the following day. "lastSun at
		// 24:00" becomes the first of the next month, and a weekday
		// constraint shifts forward by one.
		var t time.Time
		if d.Day == -1 {
			t = time.Date(2001, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		} else {
			t = time.Date(2001, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
			d.Advance = d.Weekday != 0
		}
		d.Month = t.Month()
		d.Day = t.Day()
		if d.Weekday != 0 {
			d.Weekday = d.Weekday%7 + 1
		}
		d.MillisOfDay = 0
		return nil
	}

	millis, err := parseTime(s)
	if err != nil {
		return err
	}
	d.MillisOfDay = millis
	return nil
}

// addCutover registers this date as a cutover for year on b.
func (d DateTimeOfYear) addCutover(b tzbuilder.Builder, year int) {
	b.AddCutover(year, d.Clock, d.Month, d.Day, d.Weekday, d.Advance, d.MillisOfDay)
}

// addRecurring registers this date as a recurring savings rule on b.
func (d DateTimeOfYear) addRecurring(b tzbuilder.Builder, nameKey string, saveMillis, fromYear, toYear int) {
	b.AddRecurringSavings(nameKey, saveMillis, fromYear, toYear,
		d.Clock, d.Month, d.Day, d.Weekday, d.Advance, d.MillisOfDay)
}
