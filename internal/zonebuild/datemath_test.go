package zonebuild

import (
	"testing"
	"time"
)

func TestDayOfWeek(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
		want  int
	}{
		{2000, time.January, 1, 6},   // Saturday
		{1996, time.March, 31, 7},    // Sunday
		{1970, time.January, 1, 4},   // Thursday
		{2024, time.February, 29, 4}, // Thursday
		{1800, time.January, 1, 3},   // Wednesday
	}
	for _, tc := range cases {
		if got := dayOfWeek(tc.day, tc.month, tc.year); got != tc.want {
			t.Errorf("dayOfWeek(%d %v %d) = %d, want %d", tc.year, tc.month, tc.day, got, tc.want)
		}
	}
}

func TestDayOfWeek_MatchesStdlib(t *testing.T) {
	for _, d := range []time.Time{
		time.Date(1850, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(1918, time.November, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2050, time.December, 31, 0, 0, 0, 0, time.UTC),
	} {
		want := int(d.Weekday())
		if want == 0 {
			want = 7
		}
		if got := dayOfWeek(d.Day(), d.Month(), d.Year()); got != want {
			t.Errorf("dayOfWeek(%v) = %d, want %d", d, got, want)
		}
	}
}

func TestResolveDay(t *testing.T) {
	cases := []struct {
		name         string
		year         int
		month        time.Month
		day, weekday int
		advance      bool
		wantYear     int
		wantMonth    time.Month
		wantDay      int
	}{
		{
			name: "plain day",
			year: 1996, month: time.July, day: 16,
			wantYear: 1996, wantMonth: time.July, wantDay: 16,
		},
		{
			name: "last sunday of october",
			year: 1996, month: time.October, day: -1, weekday: 7,
			wantYear: 1996, wantMonth: time.October, wantDay: 27,
		},
		{
			name: "sunday on or after the 8th",
			year: 1996, month: time.April, day: 8, weekday: 7, advance: true,
			wantYear: 1996, wantMonth: time.April, wantDay: 14,
		},
		{
			name: "advance overflows into next month",
			year: 1996, month: time.October, day: 31, weekday: 7, advance: true,
			wantYear: 1996, wantMonth: time.November, wantDay: 3,
		},
		{
			name: "advance overflows into next year",
			year: 1996, month: time.December, day: 30, weekday: 3, advance: true,
			wantYear: 1997, wantMonth: time.January, wantDay: 1,
		},
		{
			name: "retreat underflows into previous month",
			year: 1996, month: time.March, day: 1, weekday: 7,
			wantYear: 1996, wantMonth: time.February, wantDay: 25,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			y, m, d := resolveDay(tc.year, tc.month, tc.day, tc.weekday, tc.advance)
			if y != tc.wantYear || m != tc.wantMonth || d != tc.wantDay {
				t.Errorf("resolveDay() = %d %v %d, want %d %v %d", y, m, d, tc.wantYear, tc.wantMonth, tc.wantDay)
			}
		})
	}
}
