package tzc

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-zoneinfo/zic/internal/unixtime"
)

type fakeState struct {
	offset, std int
	name        string
}

// fakeZone is a hand-built timeline for exercising the verifier.
type fakeZone struct {
	id       string
	initial  fakeState
	instants []int64
	states   []fakeState
}

func (f *fakeZone) ID() string { return f.id }

func (f *fakeZone) stateAt(instant int64) fakeState {
	i := sort.Search(len(f.instants), func(i int) bool { return f.instants[i] > instant })
	if i == 0 {
		return f.initial
	}
	return f.states[i-1]
}

func (f *fakeZone) Offset(instant int64) int         { return f.stateAt(instant).offset }
func (f *fakeZone) StandardOffset(instant int64) int { return f.stateAt(instant).std }
func (f *fakeZone) NameKey(instant int64) string     { return f.stateAt(instant).name }

func (f *fakeZone) NextTransition(instant int64) int64 {
	i := sort.Search(len(f.instants), func(i int) bool { return f.instants[i] > instant })
	if i == len(f.instants) {
		return instant
	}
	return f.instants[i]
}

func (f *fakeZone) PreviousTransition(instant int64) int64 {
	i := sort.Search(len(f.instants), func(i int) bool { return f.instants[i] >= instant })
	if i == 0 {
		return instant
	}
	return f.instants[i-1] - 1
}

func TestVerify(t *testing.T) {
	y := unixtime.YearStart

	t.Run("consistent zone passes", func(t *testing.T) {
		z := &fakeZone{
			id:       "Test/Good",
			initial:  fakeState{0, 0, "AAA"},
			instants: []int64{y(1960), y(1970), y(1980)},
			states: []fakeState{
				{3600000, 0, "BBB"},
				{0, 0, "AAA"},
				{3600000, 0, "BBB"},
			},
		}
		assert.NoError(t, Verify(z))
	})

	t.Run("zone without transitions passes", func(t *testing.T) {
		assert.NoError(t, Verify(&fakeZone{id: "Test/Fixed", initial: fakeState{0, 0, "UTC"}}))
	})

	t.Run("duplicate state fails", func(t *testing.T) {
		z := &fakeZone{
			id:       "Test/Dup",
			initial:  fakeState{0, 0, "AAA"},
			instants: []int64{y(1960), y(1970)},
			states: []fakeState{
				{3600000, 0, "BBB"},
				{3600000, 0, "BBB"},
			},
		}
		err := Verify(z)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate transition")
	})

	t.Run("short name key fails", func(t *testing.T) {
		z := &fakeZone{
			id:       "Test/Short",
			initial:  fakeState{0, 0, "AAA"},
			instants: []int64{y(1960)},
			states:   []fakeState{{3600000, 0, "B"}},
		}
		err := Verify(z)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad name key")
	})

	t.Run("placeholder name key passes", func(t *testing.T) {
		z := &fakeZone{
			id:       "Test/Placeholder",
			initial:  fakeState{3600000, 3600000, "XST"},
			instants: []int64{y(1960)},
			states:   []fakeState{{0, 0, "??"}},
		}
		assert.NoError(t, Verify(z))
	})

	t.Run("transitions outside the window are ignored", func(t *testing.T) {
		z := &fakeZone{
			id:       "Test/Old",
			initial:  fakeState{0, 0, "AAA"},
			instants: []int64{y(1700)},
			states:   []fakeState{{0, 0, "B"}}, // would fail the name check if visited
		}
		assert.NoError(t, Verify(z))
	})
}

// liarZone reports backward transitions that disagree with its forward
// ones.
type liarZone struct{ *fakeZone }

func (l *liarZone) PreviousTransition(instant int64) int64 {
	prev := l.fakeZone.PreviousTransition(instant)
	if prev != instant {
		prev--
	}
	return prev
}

func TestVerify_BackwardMismatch(t *testing.T) {
	y := unixtime.YearStart
	z := &liarZone{&fakeZone{
		id:       "Test/Liar",
		initial:  fakeState{0, 0, "AAA"},
		instants: []int64{y(1960)},
		states:   []fakeState{{3600000, 0, "BBB"}},
	}}
	err := Verify(z)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backward transition")
}
