package zonebuild

import "time"

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysInMonth returns the number of days in a given month for a specific year.
func daysInMonth(month time.Month, year int) int {
	switch month {
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// dayOfWeek calculates the ISO day of the week for a given date,
// where 1=Monday, ..., 7=Sunday.
func dayOfWeek(day int, month time.Month, year int) int {
	// Zeller's Congruence algorithm adjustment for Gregorian calendar
	m := int(month)
	if m < 3 {
		m += 12
		year -= 1
	}
	k := year % 100
	j := year / 100
	h := (day + ((13 * (m + 1)) / 5) + k + (k / 4) + (j / 4) + (5 * j)) % 7
	// h has Saturday=0; rotate to Sunday=0 first, then map to ISO.
	sun0 := (h + 6) % 7
	if sun0 == 0 {
		return 7
	}
	return sun0
}

// resolveDay turns a day rule into a concrete calendar date within year.
// day -1 selects the last weekday of the month. A weekday of 0 means the
// plain day of month. Otherwise the nearest matching weekday on or after
// (advance) or on or before the day is chosen, crossing month and year
// boundaries when necessary.
func resolveDay(year int, month time.Month, day, weekday int, advance bool) (int, time.Month, int) {
	if day == -1 {
		last := daysInMonth(month, year)
		offset := (dayOfWeek(last, month, year) - weekday + 7) % 7
		return year, month, last - offset
	}
	if weekday == 0 {
		return year, month, day
	}

	if advance {
		diff := (weekday - dayOfWeek(day, month, year) + 7) % 7
		day += diff
		if limit := daysInMonth(month, year); day > limit {
			day -= limit
			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
		return year, month, day
	}

	diff := (dayOfWeek(day, month, year) - weekday + 7) % 7
	day -= diff
	if day < 1 {
		month--
		if month < time.January {
			month = time.December
			year--
		}
		day += daysInMonth(month, year)
	}
	return year, month, day
}
