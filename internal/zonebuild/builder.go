package zonebuild

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/samber/mo"

	"github.com/go-zoneinfo/zic/internal/unixtime"
	"github.com/go-zoneinfo/zic/tzbuilder"
	"github.com/go-zoneinfo/zic/tzdata"
)

// Expansion window. Recurrences with open-ended year ranges are
// materialized inside these bounds only.
const (
	expandStart = 1800
	expandEnd   = 2100
)

type recurrence struct {
	nameKey     string
	saveMillis  int
	fromYear    int
	toYear      int
	clock       tzbuilder.Clock
	month       time.Month
	day         int
	weekday     int
	advance     bool
	millisOfDay int
}

type cutover struct {
	year        int
	clock       tzbuilder.Clock
	month       time.Month
	day         int
	weekday     int
	advance     bool
	millisOfDay int
}

// era is one span of a zone's timeline with a single standard offset,
// governed either by a fixed savings amount or by recurring rules.
type era struct {
	stdOffset int
	fixed     bool
	fixedName string
	fixedSave int
	rules     []recurrence
	until     *cutover
}

// Builder accumulates eras from a sequence of calls and materializes
// them into a concrete transition timeline. It implements
// tzbuilder.ZoneBuilder.
type Builder struct {
	eras []*era
}

func New() *Builder {
	return &Builder{}
}

// current returns the era still accepting input, opening one when the
// previous era was closed by a cutover.
func (b *Builder) current() *era {
	if n := len(b.eras); n > 0 && b.eras[n-1].until == nil {
		return b.eras[n-1]
	}
	e := &era{}
	if n := len(b.eras); n > 0 {
		e.stdOffset = b.eras[n-1].stdOffset
	}
	b.eras = append(b.eras, e)
	return e
}

func (b *Builder) SetStandardOffset(offsetMillis int) {
	b.current().stdOffset = offsetMillis
}

func (b *Builder) SetFixedSavings(nameFormat string, saveMillis int) {
	e := b.current()
	e.fixed = true
	e.fixedName = nameFormat
	e.fixedSave = saveMillis
}

func (b *Builder) AddRecurringSavings(nameKey string, saveMillis, fromYear, toYear int,
	clock tzbuilder.Clock, month time.Month, dayOfMonth, dayOfWeek int, advance bool, millisOfDay int) {
	if fromYear > toYear {
		return
	}
	e := b.current()
	e.rules = append(e.rules, recurrence{
		nameKey:     nameKey,
		saveMillis:  saveMillis,
		fromYear:    fromYear,
		toYear:      toYear,
		clock:       clock,
		month:       month,
		day:         dayOfMonth,
		weekday:     dayOfWeek,
		advance:     advance,
		millisOfDay: millisOfDay,
	})
}

func (b *Builder) AddCutover(year int, clock tzbuilder.Clock, month time.Month,
	dayOfMonth, dayOfWeek int, advance bool, millisOfDay int) {
	b.current().until = &cutover{
		year:        year,
		clock:       clock,
		month:       month,
		day:         dayOfMonth,
		weekday:     dayOfWeek,
		advance:     advance,
		millisOfDay: millisOfDay,
	}
}

// occurrence is one materialized firing of a recurrence. raw is local
// millis in the occurrence's own clock reference; conversion to an
// instant needs the offsets in effect at application time.
type occurrence struct {
	raw   int64
	clock tzbuilder.Clock
	save  int
	name  string
}

// toInstant converts local millis in the given clock reference to UTC.
func toInstant(raw int64, clock tzbuilder.Clock, stdOffset, save int) int64 {
	switch clock {
	case tzbuilder.ClockUTC:
		return raw
	case tzbuilder.ClockStandard:
		return raw - int64(stdOffset)
	default:
		return raw - int64(stdOffset+save)
	}
}

func dateMillis(year int, month time.Month, day, weekday int, advance bool, millisOfDay int) int64 {
	y, m, d := resolveDay(year, month, day, weekday, advance)
	return unixtime.FromDate(y, int(m), d) + int64(millisOfDay)
}

// expand materializes every firing of the era's recurrences inside the
// expansion window, ordered by raw local time.
func (e *era) expand() []occurrence {
	var occs []occurrence
	for _, r := range e.rules {
		from, to := r.fromYear, r.toYear
		if from < expandStart {
			from = expandStart
		}
		if to > expandEnd {
			to = expandEnd
		}
		for y := from; y <= to; y++ {
			occs = append(occs, occurrence{
				raw:   dateMillis(y, r.month, r.day, r.weekday, r.advance, r.millisOfDay),
				clock: r.clock,
				save:  r.saveMillis,
				name:  r.nameKey,
			})
		}
	}
	sort.SliceStable(occs, func(i, j int) bool { return occs[i].raw < occs[j].raw })
	return occs
}

// cutoverInstant resolves the era's cutover against the savings in
// effect when it fires.
func (e *era) cutoverInstant(activeSave int) int64 {
	c := e.until
	raw := dateMillis(c.year, c.month, c.day, c.weekday, c.advance, c.millisOfDay)
	return toInstant(raw, c.clock, e.stdOffset, activeSave)
}

// startName is the name in effect before any of the era's recurrences
// have fired.
func (e *era) startName() string {
	for _, r := range e.rules {
		if r.saveMillis == 0 {
			return r.nameKey
		}
	}
	return "??"
}

type state struct {
	offset int
	std    int
	name   string
}

// timeline collects transitions, suppressing no-ops and collapsing
// writes at non-increasing instants.
type timeline struct {
	initial state
	cur     state
	trans   []Transition
}

func (tl *timeline) emit(instant int64, s state) {
	if s == tl.cur {
		return
	}
	if n := len(tl.trans); n > 0 && instant <= tl.trans[n-1].Instant {
		tl.trans[n-1].OffsetMillis = s.offset
		tl.trans[n-1].StandardMillis = s.std
		tl.trans[n-1].NameKey = s.name
		tl.cur = s
		return
	}
	tl.trans = append(tl.trans, Transition{
		Instant:        instant,
		OffsetMillis:   s.offset,
		StandardMillis: s.std,
		NameKey:        s.name,
	})
	tl.cur = s
}

// ToTimeZone materializes the accumulated eras into an immutable zone.
func (b *Builder) ToTimeZone(id string) (tzbuilder.TimeZone, error) {
	if len(b.eras) == 0 {
		return nil, fmt.Errorf("zone %s: no timeline data", id)
	}

	var tl timeline
	var eraStart int64

	for i, e := range b.eras {
		if len(e.rules) == 0 {
			save := 0
			if e.fixed {
				save = e.fixedSave
			}
			s := state{
				offset: e.stdOffset + save,
				std:    e.stdOffset,
				name:   tzdata.FormatName(e.fixedName, save, mo.None[string]()),
			}
			if i == 0 {
				tl.initial = s
				tl.cur = s
			} else {
				tl.emit(eraStart, s)
			}
			if e.until == nil {
				break
			}
			eraStart = e.cutoverInstant(save)
			continue
		}

		activeSave := 0
		activeName := e.startName()
		if i == 0 {
			tl.initial = state{offset: e.stdOffset, std: e.stdOffset, name: activeName}
			tl.cur = tl.initial
		}
		pendingStart := i > 0

		for _, occ := range e.expand() {
			instant := toInstant(occ.raw, occ.clock, e.stdOffset, activeSave)
			if e.until != nil && instant >= e.cutoverInstant(activeSave) {
				break
			}
			if pendingStart && instant <= eraStart {
				// Fired before this era began; only shapes the state
				// the era starts in.
				activeSave = occ.save
				activeName = occ.name
				continue
			}
			if pendingStart {
				tl.emit(eraStart, state{offset: e.stdOffset + activeSave, std: e.stdOffset, name: activeName})
				pendingStart = false
			}
			tl.emit(instant, state{offset: e.stdOffset + occ.save, std: e.stdOffset, name: occ.name})
			activeSave = occ.save
			activeName = occ.name
		}
		if pendingStart {
			tl.emit(eraStart, state{offset: e.stdOffset + activeSave, std: e.stdOffset, name: activeName})
		}

		if e.until == nil {
			break
		}
		eraStart = e.cutoverInstant(activeSave)
	}

	// A trailing cutover with nothing after it ends the timeline.
	if last := b.eras[len(b.eras)-1]; last.until != nil {
		tl.emit(eraStart, state{name: "??"})
	}

	return &CompiledZone{
		id:      id,
		initial: Transition{OffsetMillis: tl.initial.offset, StandardMillis: tl.initial.std, NameKey: tl.initial.name},
		trans:   tl.trans,
	}, nil
}

// WriteTo materializes the zone and writes its binary form to w.
func (b *Builder) WriteTo(id string, w io.Writer) error {
	tz, err := b.ToTimeZone(id)
	if err != nil {
		return err
	}
	return tz.(*CompiledZone).Write(w)
}
