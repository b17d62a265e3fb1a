package tzdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/go-zoneinfo/zic/tzbuilder"
)

const (
	// MinYear means the indefinite past.
	MinYear = math.MinInt32
	// MaxYear means the indefinite future.
	MaxYear = math.MaxInt32
)

// splitLine strips the trailing comment from a line and splits it into
// fields. It returns nil for blank and comment-only lines.
//
// The zic spec says:
//
//	Fields are separated from one another by one or more white space
//	characters. The white space characters are space, form feed,
//	carriage return, newline, tab, and vertical tab. Leading and
//	trailing white space on input lines is ignored. An unquoted sharp
//	character (#) in the input introduces a comment which extends to
//	the end of the line.
//
// Quoted fields are not supported; they do not occur in real tzdb files.
func splitLine(line string) []string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] == '#' {
		return nil
	}
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.Fields(line)
}

// cursor walks the fields of one logical line.
type cursor struct {
	fields []string
	pos    int
}

func newCursor(fields []string) *cursor {
	return &cursor{fields: fields}
}

func (c *cursor) more() bool {
	return c.pos < len(c.fields)
}

func (c *cursor) remaining() int {
	return len(c.fields) - c.pos
}

func (c *cursor) next() (string, error) {
	if !c.more() {
		return "", fmt.Errorf("unexpected end of line")
	}
	f := c.fields[c.pos]
	c.pos++
	return f, nil
}

// isAbbrev reports whether s is an unambiguous abbreviation of long,
// i.e. a prefix of long that is at least as long as min.
//
// The zic spec says:
//
//	A name can be abbreviated by omitting all but an initial prefix;
//	any abbreviation must be unambiguous in context.
func isAbbrev(s, long, min string) bool {
	return strings.HasPrefix(s, min) && strings.HasPrefix(long, s)
}

// parseYear parses a year field, resolving the minimum/maximum/only
// sentinels. "only" repeats def, which callers set to the FROM year.
func parseYear(s string, def int) (int, error) {
	l := strings.ToLower(s)
	switch {
	case isAbbrev(l, "minimum", "mi"):
		return MinYear, nil
	case isAbbrev(l, "maximum", "ma"):
		return MaxYear, nil
	case isAbbrev(l, "only", "o"):
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("year %q: invalid", s)
	}
	return n, nil
}

func parseMonth(s string) (time.Month, error) {
	l := strings.ToLower(s)
	months := []struct {
		long, min string
		month     time.Month
	}{
		{"january", "ja", time.January},
		{"february", "f", time.February},
		{"march", "mar", time.March},
		{"april", "ap", time.April},
		{"may", "may", time.May},
		{"june", "jun", time.June},
		{"july", "jul", time.July},
		{"august", "au", time.August},
		{"september", "s", time.September},
		{"october", "o", time.October},
		{"november", "n", time.November},
		{"december", "d", time.December},
	}
	for _, m := range months {
		if isAbbrev(l, m.long, m.min) {
			return m.month, nil
		}
	}
	return 0, fmt.Errorf("month %q: invalid", s)
}

// parseWeekday parses a weekday name into ISO numbering,
// Monday=1 … Sunday=7.
func parseWeekday(s string) (int, error) {
	l := strings.ToLower(s)
	days := []struct {
		long, min string
		day       int
	}{
		{"monday", "m", 1},
		{"tuesday", "tu", 2},
		{"wednesday", "w", 3},
		{"thursday", "th", 4},
		{"friday", "f", 5},
		{"saturday", "sa", 6},
		{"sunday", "su", 7},
	}
	for _, d := range days {
		if isAbbrev(l, d.long, d.min) {
			return d.day, nil
		}
	}
	return 0, fmt.Errorf("weekday %q: invalid", s)
}

// parseOptional maps the "-" placeholder to None.
func parseOptional(s string) mo.Option[string] {
	if s == "-" {
		return mo.None[string]()
	}
	return mo.Some(s)
}

// parseClock selects the reference clock from the trailing character of a
// time token: s means standard time, u/g/z mean universal time, anything
// else (including the absence of an indicator) means wall clock time.
func parseClock(c byte) tzbuilder.Clock {
	switch c {
	case 's', 'S':
		return tzbuilder.ClockStandard
	case 'u', 'U', 'g', 'G', 'z', 'Z':
		return tzbuilder.ClockUTC
	default:
		return tzbuilder.ClockWall
	}
}

// trimClockSuffix removes a trailing clock indicator letter, if any.
func trimClockSuffix(s string) string {
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'w', 'W', 's', 'S', 'u', 'U', 'g', 'G', 'z', 'Z', 'd', 'D':
			return s[:len(s)-1]
		}
	}
	return s
}

// parseTime parses a time-of-day or offset field into milliseconds.
// Recognized forms are "-" (zero), and [-]h[:mm[:ss[.fff]]]. Magnitudes
// of 24 hours or more are not supported; neither are suffix letters,
// which callers strip beforehand where the grammar allows them.
func parseTime(s string) (int, error) {
	if s == "-" {
		return 0, nil
	}

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("time %q: too many components", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q: invalid hours", s)
	}
	if hours < 0 || hours > 23 {
		return 0, fmt.Errorf("time %q: hours out of range", s)
	}

	var minutes, seconds, millis int
	if len(parts) > 1 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("time %q: invalid minutes", s)
		}
	}
	if len(parts) > 2 {
		sec := parts[2]
		if frac := strings.IndexByte(sec, '.'); frac >= 0 {
			fs := sec[frac+1:]
			sec = sec[:frac]
			// Pad or truncate the fraction to millisecond precision.
			if len(fs) > 3 {
				fs = fs[:3]
			}
			for len(fs) < 3 {
				fs += "0"
			}
			millis, err = strconv.Atoi(fs)
			if err != nil {
				return 0, fmt.Errorf("time %q: invalid fraction", s)
			}
		}
		seconds, err = strconv.Atoi(sec)
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("time %q: invalid seconds", s)
		}
	}

	total := ((hours*60+minutes)*60+seconds)*1000 + millis
	if neg {
		total = -total
	}
	return total, nil
}
