package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Next returns the first occurrence of rule strictly after from, at the start
// of that day in from's location. It returns mo.None for Manual rules and for
// MonthlyByWeekday rules without weekdays or weeks.
func Next(rule Rule, from time.Time) mo.Option[time.Time] {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	from = startOfDay(from)
	year, month, day := from.Date()

	switch rule.Kind {
	case Daily:
		return mo.Some(from.AddDate(0, 0, interval))

	case Weekly:
		return mo.Some(nextWeekly(rule.Weekdays, interval, from))

	case MonthlyByDate:
		y, m := addMonths(year, month, interval)
		return mo.Some(clampedDate(y, m, orDay(rule.DayOfMonth, day), from.Location()))

	case MonthlyByWeekday:
		return nextMonthlyWeekday(rule, interval, from)

	case Yearly:
		m := month
		if rule.Month != 0 {
			m = rule.Month
		}
		return mo.Some(clampedDate(year+interval, m, orDay(rule.DayOfMonth, day), from.Location()))
	}

	return mo.None[time.Time]()
}

// nextWeekly searches the seven days after from for a selected weekday and
// falls back to whole-week steps when none are selected.
func nextWeekly(weekdays []time.Weekday, interval int, from time.Time) time.Time {
	if len(weekdays) > 0 {
		selected := make(map[time.Weekday]bool, len(weekdays))
		for _, wd := range weekdays {
			selected[wd] = true
		}
		for offset := 1; offset <= 7; offset++ {
			candidate := from.AddDate(0, 0, offset)
			if selected[candidate.Weekday()] {
				return candidate
			}
		}
	}
	return from.AddDate(0, 0, 7*interval)
}

func nextMonthlyWeekday(rule Rule, interval int, from time.Time) mo.Option[time.Time] {
	if len(rule.MonthlyWeekdays) == 0 || len(rule.MonthlyWeeks) == 0 {
		return mo.None[time.Time]()
	}

	year, month := addMonths(from.Year(), from.Month(), interval)

	// First match in declared order wins, not the earliest date.
	for _, week := range rule.MonthlyWeeks {
		for _, wd := range rule.MonthlyWeekdays {
			if candidate, ok := weekdayInMonth(year, month, wd, week, from.Location()); ok {
				return mo.Some(candidate)
			}
		}
	}
	return mo.None[time.Time]()
}

// weekdayInMonth finds the given occurrence of wd in the month. Last is taken
// as three weeks after the first occurrence, or two when that overflows; a
// fifth occurrence is never returned.
func weekdayInMonth(year int, month time.Month, wd time.Weekday, week WeekOrdinal, loc *time.Location) (time.Time, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	firstOccurrence := first.AddDate(0, 0, offset)

	if week == Last {
		candidate := firstOccurrence.AddDate(0, 0, 21)
		if candidate.Month() != month {
			candidate = firstOccurrence.AddDate(0, 0, 14)
		}
		return candidate, true
	}

	candidate := firstOccurrence.AddDate(0, 0, 7*(int(week)-1))
	if candidate.Month() == month {
		return candidate, true
	}
	return time.Time{}, false
}

func addMonths(year int, month time.Month, n int) (int, time.Month) {
	m := int(month) - 1 + n
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	return year, time.Month(m + 1)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// daysInMonth uses the four-year leap rule only; century years are not special.
func daysInMonth(year int, month time.Month) int {
	if month == time.February && year%4 == 0 {
		return 29
	}
	return monthLengths[month-1]
}

func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	day = min(day, daysInMonth(year, month))
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month {
		// Feb 29 of a century year such as 2100 does not exist.
		t = time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	}
	return t
}

func orDay(configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	return fallback
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
