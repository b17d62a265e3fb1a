package zonebuild

import "sort"

// Transition is one change of observed state: from Instant onward the
// zone uses the given total and standard offsets under NameKey.
type Transition struct {
	Instant        int64
	OffsetMillis   int
	StandardMillis int
	NameKey        string
}

// CompiledZone is an immutable materialized timeline. It implements
// tzbuilder.TimeZone.
type CompiledZone struct {
	id      string
	initial Transition // Instant is unused
	trans   []Transition
}

func (z *CompiledZone) ID() string {
	return z.id
}

// Initial is the state in effect before the first transition.
func (z *CompiledZone) Initial() Transition {
	return z.initial
}

// Transitions is the full timeline in ascending instant order. The
// returned slice must not be modified.
func (z *CompiledZone) Transitions() []Transition {
	return z.trans
}

// stateAt finds the latest transition at or before instant, falling
// back to the initial state.
func (z *CompiledZone) stateAt(instant int64) Transition {
	i := sort.Search(len(z.trans), func(i int) bool { return z.trans[i].Instant > instant })
	if i == 0 {
		return z.initial
	}
	return z.trans[i-1]
}

func (z *CompiledZone) Offset(instant int64) int {
	return z.stateAt(instant).OffsetMillis
}

func (z *CompiledZone) StandardOffset(instant int64) int {
	return z.stateAt(instant).StandardMillis
}

func (z *CompiledZone) NameKey(instant int64) string {
	return z.stateAt(instant).NameKey
}

// NextTransition returns the instant of the first transition strictly
// after instant, or instant itself when no transition follows.
func (z *CompiledZone) NextTransition(instant int64) int64 {
	i := sort.Search(len(z.trans), func(i int) bool { return z.trans[i].Instant > instant })
	if i == len(z.trans) {
		return instant
	}
	return z.trans[i].Instant
}

// PreviousTransition returns the last instant before the latest
// transition strictly before instant, or instant itself when none
// precedes it.
func (z *CompiledZone) PreviousTransition(instant int64) int64 {
	i := sort.Search(len(z.trans), func(i int) bool { return z.trans[i].Instant >= instant })
	if i == 0 {
		return instant
	}
	return z.trans[i-1].Instant - 1
}

// Equal reports whether two zones describe the same timeline.
func (z *CompiledZone) Equal(o *CompiledZone) bool {
	if z.id != o.id || z.initial != o.initial || len(z.trans) != len(o.trans) {
		return false
	}
	for i := range z.trans {
		if z.trans[i] != o.trans[i] {
			return false
		}
	}
	return true
}
