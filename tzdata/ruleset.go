package tzdata

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-zoneinfo/zic/tzbuilder"
)

// RuleSet is a named group of Rule lines. All rules in a set share one
// name and together describe when savings start and end.
type RuleSet struct {
	Rules []Rule
}

// Add appends a rule to the set. Every rule must carry the set's name.
func (rs *RuleSet) Add(r Rule) error {
	if len(rs.Rules) > 0 && r.Name != rs.Rules[0].Name {
		return fmt.Errorf("rule name mismatch: %q vs %q", r.Name, rs.Rules[0].Name)
	}
	rs.Rules = append(rs.Rules, r)
	return nil
}

// Resolve registers the set's recurrences on b for a zone segment with
// the given standard offset and name format.
//
// Rule sets with negative SAVE values (Ireland, Namibia) would put the
// standard offset in summer rather than winter, which breaks name
// selection downstream. Those sets are rewritten on the fly: the most
// negative save is folded into the standard offset, every save is
// shifted up by the same amount, slash-format halves are swapped, and a
// synthetic rule pins standard time before the first real rule.
func (rs *RuleSet) Resolve(b tzbuilder.Builder, standardMillis int, nameFormat string, log *slog.Logger) {
	negativeSave := 0
	for _, r := range rs.Rules {
		if r.SaveMillis < negativeSave {
			negativeSave = r.SaveMillis
		}
	}

	if negativeSave < 0 {
		log.Debug("fixed negative save values",
			slog.String("rule", rs.Rules[0].Name),
			slog.Int("negativeSave", negativeSave))
		standardMillis += negativeSave
		if i := strings.IndexByte(nameFormat, '/'); i > 0 {
			nameFormat = nameFormat[i+1:] + "/" + nameFormat[:i]
		}
	}
	b.SetStandardOffset(standardMillis)

	if negativeSave < 0 {
		rs.Rules[0].anchorRule().addRecurring(b, negativeSave, nameFormat)
	}

	for _, r := range rs.Rules {
		r.addRecurring(b, negativeSave, nameFormat)
	}
}
