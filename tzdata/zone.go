package tzdata

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/samber/mo"

	"github.com/go-zoneinfo/zic/tzbuilder"
)

// Zone is a named sequence of timeline segments. The first segment
// comes from the Zone line itself; continuation lines append further
// segments. Every segment except possibly the last carries an UNTIL
// cutover.
type Zone struct {
	Name     string
	Segments []ZoneSegment
}

// ZoneSegment is one span of a zone's timeline.
type ZoneSegment struct {
	OffsetMillis int

	// Rules names the rule set in effect, or holds a fixed savings
	// amount in time syntax. None means standard time throughout.
	Rules mo.Option[string]

	Format string
	Until  mo.Option[Cutover]
}

// Cutover is the UNTIL column of a zone segment.
type Cutover struct {
	Year int
	Date DateTimeOfYear
}

// parseZoneSegment reads the fields of a Zone line after the name, or of
// a continuation line.
func parseZoneSegment(c *cursor) (ZoneSegment, error) {
	var seg ZoneSegment
	var err error

	offset, err := c.next()
	if err != nil {
		return seg, err
	}
	var errs error
	if seg.OffsetMillis, err = parseTime(offset); err != nil {
		errs = errors.Join(errs, fmt.Errorf("STDOFF %q: %w", offset, err))
	}

	rules, err := c.next()
	if err != nil {
		return seg, err
	}
	seg.Rules = parseOptional(rules)

	if seg.Format, err = c.next(); err != nil {
		return seg, err
	}

	if c.more() {
		var cut Cutover
		year, _ := c.next()
		// UNTIL takes a literal year, never the min/max sentinels.
		if cut.Year, err = strconv.Atoi(year); err != nil {
			errs = errors.Join(errs, fmt.Errorf("UNTIL %q: invalid year", year))
		}
		if cut.Date, err = parseDateTimeOfYear(c); err != nil {
			errs = errors.Join(errs, err)
		}
		seg.Until = mo.Some(cut)
	}

	return seg, errs
}

// ResolveTo replays the zone's segments onto b, looking up named rule
// sets in ruleSets. A Rules column that parses as a time is treated as
// fixed savings rather than a rule set name.
func (z *Zone) ResolveTo(b tzbuilder.Builder, ruleSets map[string]*RuleSet, log *slog.Logger) error {
	for i, seg := range z.Segments {
		rules, ok := seg.Rules.Get()
		if !ok {
			b.SetStandardOffset(seg.OffsetMillis)
			b.SetFixedSavings(seg.Format, 0)
		} else if save, err := parseTime(rules); err == nil {
			b.SetStandardOffset(seg.OffsetMillis)
			b.SetFixedSavings(seg.Format, save)
		} else {
			rs, ok := ruleSets[rules]
			if !ok {
				return fmt.Errorf("zone %s: rules not found: %s", z.Name, rules)
			}
			rs.Resolve(b, seg.OffsetMillis, seg.Format, log)
		}

		cut, ok := seg.Until.Get()
		if !ok {
			if i != len(z.Segments)-1 {
				return fmt.Errorf("zone %s: segment %d has no UNTIL but is not last", z.Name, i)
			}
			break
		}
		cut.Date.addCutover(b, cut.Year)
	}
	return nil
}
