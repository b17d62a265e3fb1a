package tzdata

import (
	"testing"

	"github.com/samber/mo"
)

func TestFormatName(t *testing.T) {
	hour := 3600000
	cases := []struct {
		format string
		save   int
		letter mo.Option[string]
		want   string
	}{
		{"CET", 0, mo.None[string](), "CET"},
		{"CE%sT", hour, mo.Some("S"), "CEST"},
		{"CE%sT", 0, mo.None[string](), "CET"},
		{"WET/WEST", 0, mo.Some("S"), "WET"},
		{"WET/WEST", hour, mo.None[string](), "WEST"},
		{"%z", 0, mo.None[string](), "+00"},
		{"%z", 5*3600000 + 45*60000, mo.None[string](), "+0545"},
		{"%z", -hour, mo.None[string](), "-01"},
		{"%z", -(13*60000 + 4000), mo.None[string](), "-001304"},
	}
	for _, tc := range cases {
		if got := FormatName(tc.format, tc.save, tc.letter); got != tc.want {
			t.Errorf("FormatName(%q, %d, %v) = %q, want %q", tc.format, tc.save, tc.letter, got, tc.want)
		}
	}
}

func TestParseRule_ToBeforeFrom(t *testing.T) {
	fields := []string{"Bad", "1990", "1980", "-", "Apr", "1", "2:00", "1:00", "D"}
	if _, err := parseRule(newCursor(fields)); err == nil {
		t.Error("expected error for TO year before FROM year")
	}
}

func TestRuleSetAdd_NameMismatch(t *testing.T) {
	rs := &RuleSet{}
	if err := rs.Add(Rule{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := rs.Add(Rule{Name: "B"}); err == nil {
		t.Error("expected error adding rule with different name")
	}
}
