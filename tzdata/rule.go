package tzdata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"github.com/go-zoneinfo/zic/tzbuilder"
)

// Rule is one daylight saving rule line.
type Rule struct {
	Name     string
	FromYear int
	ToYear   int
	Type     mo.Option[string]
	Date     DateTimeOfYear

	// SaveMillis is the amount of time added to local standard time
	// while the rule is in effect.
	SaveMillis int

	// Letter is substituted for %s in the zone format, if present.
	Letter mo.Option[string]
}

// parseRule reads the fields of a Rule line after the keyword. Missing
// fields abort immediately; bad field values are collected so one report
// covers the whole line.
func parseRule(c *cursor) (Rule, error) {
	var r Rule
	var errs error
	var err error

	if r.Name, err = c.next(); err != nil {
		return r, err
	}

	from, err := c.next()
	if err != nil {
		return r, err
	}
	if r.FromYear, err = parseYear(from, 0); err != nil {
		errs = errors.Join(errs, fmt.Errorf("FROM %q: %w", from, err))
	}

	to, err := c.next()
	if err != nil {
		return r, err
	}
	if r.ToYear, err = parseYear(to, r.FromYear); err != nil {
		errs = errors.Join(errs, fmt.Errorf("TO %q: %w", to, err))
	} else if errs == nil && r.ToYear < r.FromYear {
		errs = errors.Join(errs, fmt.Errorf("rule %s: TO year %d before FROM year %d", r.Name, r.ToYear, r.FromYear))
	}

	typ, err := c.next()
	if err != nil {
		return r, err
	}
	r.Type = parseOptional(typ)

	if r.Date, err = parseDateTimeOfYear(c); err != nil {
		errs = errors.Join(errs, err)
	}

	save, err := c.next()
	if err != nil {
		return r, err
	}
	if r.SaveMillis, err = parseTime(trimClockSuffix(save)); err != nil {
		errs = errors.Join(errs, fmt.Errorf("SAVE %q: %w", save, err))
	}

	letter, err := c.next()
	if err != nil {
		return r, err
	}
	r.Letter = parseOptional(letter)

	return r, errs
}

// anchorRule derives a synthetic zero-savings rule that predates r,
// pinning standard time ahead of the rule set's first year.
func (r Rule) anchorRule() Rule {
	return Rule{
		Name:     r.Name,
		FromYear: 1800,
		ToYear:   r.FromYear,
		Date:     r.Date,
		Letter:   r.Letter,
	}
}

// addRecurring registers the rule on b. negativeSave is the correction
// already folded into the standard offset for rule sets that dip below
// zero savings.
func (r Rule) addRecurring(b tzbuilder.Builder, negativeSave int, nameFormat string) {
	save := r.SaveMillis - negativeSave
	nameKey := FormatName(nameFormat, save, r.Letter)
	r.Date.addRecurring(b, nameKey, save, r.FromYear, r.ToYear)
}

// FormatName expands a zone FORMAT column into a concrete abbreviation
// for the given savings. Slash pairs select standard or daylight halves,
// %s substitutes the rule letter, and %z renders the offset numerically.
func FormatName(nameFormat string, saveMillis int, letter mo.Option[string]) string {
	if i := strings.IndexByte(nameFormat, '/'); i > 0 {
		if saveMillis == 0 {
			return nameFormat[:i]
		}
		return nameFormat[i+1:]
	}
	if strings.Contains(nameFormat, "%s") {
		return strings.Replace(nameFormat, "%s", letter.OrElse(""), 1)
	}
	if nameFormat == "%z" {
		return formatOffset(saveMillis)
	}
	return nameFormat
}

// formatOffset renders an offset as the shortest of ±hh, ±hhmm and
// ±hhmmss that loses no precision.
func formatOffset(offsetMillis int) string {
	sign := "+"
	if offsetMillis < 0 {
		sign = "-"
		offsetMillis = -offsetMillis
	}
	seconds := offsetMillis / 1000
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	switch {
	case s != 0:
		return fmt.Sprintf("%s%02d%02d%02d", sign, h, m, s)
	case m != 0:
		return fmt.Sprintf("%s%02d%02d", sign, h, m)
	default:
		return fmt.Sprintf("%s%02d", sign, h)
	}
}
