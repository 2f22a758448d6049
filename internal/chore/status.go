package chore

import (
	"time"

	"github.com/samber/mo"
)

type Status string

const (
	StatusUnscheduled Status = "Unscheduled"
	StatusUpcoming    Status = "Upcoming"
	StatusDueToday    Status = "Due today"
	StatusOverdue     Status = "Overdue"
)

// statusFor maps the signed day difference between the due date and today.
func statusFor(days mo.Option[int]) Status {
	n, ok := days.Get()
	switch {
	case !ok:
		return StatusUnscheduled
	case n > 0:
		return StatusUpcoming
	case n == 0:
		return StatusDueToday
	default:
		return StatusOverdue
	}
}

// daysBetween returns the number of calendar days from a to b, ignoring the
// time of day and the zone offsets of both values.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	// Unix seconds; a Duration overflows beyond about 292 years.
	return int((ub.Unix() - ua.Unix()) / 86400)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
