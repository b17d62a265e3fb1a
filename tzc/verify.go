package tzc

import (
	"fmt"
	"time"

	"github.com/go-zoneinfo/zic/internal/unixtime"
	"github.com/go-zoneinfo/zic/tzbuilder"
)

// Verification window.
const (
	verifyStart = 1850
	verifyEnd   = 2050
)

func formatInstant(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

// Verify walks a zone's transitions between 1850 and 2050 and reports
// the first inconsistency: a transition that changes nothing, a bogus
// name key, or a backward walk that disagrees with the forward one.
func Verify(tz tzbuilder.TimeZone) error {
	start := unixtime.YearStart(verifyStart)
	end := unixtime.YearStart(verifyEnd)

	millis := start
	offset := tz.Offset(millis)
	stdOffset := tz.StandardOffset(millis)
	key := tz.NameKey(millis)

	var transitions []int64
	for {
		next := tz.NextTransition(millis)
		if next == millis || next > end {
			break
		}
		millis = next

		nextOffset := tz.Offset(millis)
		nextStdOffset := tz.StandardOffset(millis)
		nextKey := tz.NameKey(millis)

		if offset == nextOffset && stdOffset == nextStdOffset && key == nextKey {
			return fmt.Errorf("zone %s: duplicate transition at %s", tz.ID(), formatInstant(millis))
		}
		if len(nextKey) < 3 && nextKey != "??" {
			return fmt.Errorf("zone %s: bad name key %q at %s", tz.ID(), nextKey, formatInstant(millis))
		}

		transitions = append(transitions, millis)
		offset, stdOffset, key = nextOffset, nextStdOffset, nextKey
	}

	millis = end
	for i := len(transitions) - 1; i >= 0; i-- {
		prev := tz.PreviousTransition(millis)
		if prev == millis || prev < start {
			break
		}
		millis = prev

		if want := transitions[i] - 1; millis != want {
			return fmt.Errorf("zone %s: backward transition at %s, want %s",
				tz.ID(), formatInstant(millis), formatInstant(want))
		}
	}
	return nil
}
