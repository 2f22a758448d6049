package chore

import (
	"time"
)

// Attributes is the read model exposed for a chore. Field order is the order
// clients see; the kind-specific fields are omitted when empty.
type Attributes struct {
	DueDate           *string  `json:"chore_due_date"`
	DaysUntilDue      *int     `json:"days_until_due"`
	AssignedTo        string   `json:"assigned_to,omitempty"`
	RecurrenceType    string   `json:"recurrence_type"`
	Interval          int      `json:"interval"`
	LastCompletedDate *string  `json:"last_completed_date"`
	Weekdays          []string `json:"weekdays,omitempty"`
	DayOfMonth        int      `json:"day_of_month,omitempty"`
	Month             int      `json:"month,omitempty"`
	MonthlyWeekdays   []string `json:"monthly_weekdays,omitempty"`
	MonthlyWeeks      []string `json:"monthly_weeks,omitempty"`
}

// Attributes builds the read model as of today. assignedTo is the label of
// the assigned person, empty when nobody is assigned.
func (s *State) Attributes(today time.Time, assignedTo string) Attributes {
	attrs := Attributes{
		AssignedTo:     assignedTo,
		RecurrenceType: string(s.rule.Kind),
		Interval:       s.rule.Interval,
		DayOfMonth:     s.rule.DayOfMonth,
		Month:          int(s.rule.Month),
	}

	if due, ok := s.dueDate.Get(); ok {
		iso := due.Format(time.DateOnly)
		days := daysBetween(today, due)
		attrs.DueDate = &iso
		attrs.DaysUntilDue = &days
	}
	if last, ok := s.lastCompleted.Get(); ok {
		iso := last.Format(time.DateOnly)
		attrs.LastCompletedDate = &iso
	}

	for _, wd := range s.rule.Weekdays {
		attrs.Weekdays = append(attrs.Weekdays, wd.String())
	}
	for _, wd := range s.rule.MonthlyWeekdays {
		attrs.MonthlyWeekdays = append(attrs.MonthlyWeekdays, wd.String())
	}
	for _, o := range s.rule.MonthlyWeeks {
		attrs.MonthlyWeeks = append(attrs.MonthlyWeeks, o.String())
	}
	return attrs
}
