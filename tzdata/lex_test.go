package tzdata

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"-", 0},
		{"0", 0},
		{"1:00", 3600000},
		{"-1:00", -3600000},
		{"2:30", 9000000},
		{"0:34:08", 34*60000 + 8000},
		{"0:29:45.50", 29*60000 + 45500},
		{"0:00:00.1234", 123},
		{"23:59:59", 86399000},
		{"-0:25:21", -(25*60000 + 21000)},
	}
	for _, tc := range cases {
		got, err := parseTime(tc.input)
		if err != nil {
			t.Errorf("parseTime(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseTime(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestParseTime_Errors(t *testing.T) {
	for _, input := range []string{"", "x", "24:00", "25:00", "1:60", "1:00:60", "1:2:3:4"} {
		if _, err := parseTime(input); err == nil {
			t.Errorf("parseTime(%q): expected error", input)
		}
	}
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		input string
		def   int
		want  int
	}{
		{"1996", 0, 1996},
		{"minimum", 0, MinYear},
		{"min", 0, MinYear},
		{"mi", 0, MinYear},
		{"maximum", 0, MaxYear},
		{"Max", 0, MaxYear},
		{"only", 1981, 1981},
		{"o", 1981, 1981},
	}
	for _, tc := range cases {
		got, err := parseYear(tc.input, tc.def)
		if err != nil {
			t.Errorf("parseYear(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseYear(%q, %d) = %d, want %d", tc.input, tc.def, got, tc.want)
		}
	}

	if _, err := parseYear("m", 0); err == nil {
		t.Error(`parseYear("m"): expected error for ambiguous abbreviation`)
	}
}

func TestParseMonth(t *testing.T) {
	cases := []struct {
		input string
		want  time.Month
	}{
		{"January", time.January},
		{"ja", time.January},
		{"F", time.February},
		{"mar", time.March},
		{"May", time.May},
		{"jun", time.June},
		{"Jul", time.July},
		{"au", time.August},
		{"Sept", time.September},
		{"O", time.October},
		{"nov", time.November},
		{"D", time.December},
	}
	for _, tc := range cases {
		got, err := parseMonth(tc.input)
		if err != nil {
			t.Errorf("parseMonth(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseMonth(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}

	for _, input := range []string{"j", "m", "a", "xyz"} {
		if _, err := parseMonth(input); err == nil {
			t.Errorf("parseMonth(%q): expected error", input)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"Monday", 1},
		{"m", 1},
		{"tu", 2},
		{"Wed", 3},
		{"th", 4},
		{"Fri", 5},
		{"sat", 6},
		{"Sun", 7},
	}
	for _, tc := range cases {
		got, err := parseWeekday(tc.input)
		if err != nil {
			t.Errorf("parseWeekday(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseWeekday(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}

	for _, input := range []string{"s", "t", "x"} {
		if _, err := parseWeekday(input); err == nil {
			t.Errorf("parseWeekday(%q): expected error", input)
		}
	}
}

func TestSplitLine(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   ", nil},
		{"# just a comment", nil},
		{"  # indented comment", nil},
		{"Zone Etc/UTC 0 - UTC", []string{"Zone", "Etc/UTC", "0", "-", "UTC"}},
		{"Zone Etc/UTC 0 - UTC # trailing", []string{"Zone", "Etc/UTC", "0", "-", "UTC"}},
		{"\t1:00\tSwiss\tCE%sT\t1981", []string{"1:00", "Swiss", "CE%sT", "1981"}},
	}
	for _, tc := range cases {
		got := splitLine(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitLine(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitLine(%q) = %v, want %v", tc.input, got, tc.want)
				break
			}
		}
	}
}
