package chore

import (
	"time"

	"github.com/dukerupert/choretracker/internal/recurrence"
	"github.com/samber/mo"
)

// State tracks the due date and last completion of a single chore. The rule
// and start date never change after construction. A State is not safe for
// concurrent use; the owner serialises calls.
type State struct {
	rule          recurrence.Rule
	startDate     time.Time
	dueDate       mo.Option[time.Time]
	lastCompleted mo.Option[time.Time]
}

// Snapshot is the persisted part of a State.
type Snapshot struct {
	DueDate           *time.Time
	LastCompletedDate *time.Time
}

// New creates a State whose first due date is the rule's next occurrence
// after startDate.
func New(rule recurrence.Rule, startDate time.Time) *State {
	startDate = startOfDay(startDate)
	return &State{
		rule:      rule,
		startDate: startDate,
		dueDate:   recurrence.Next(rule, startDate),
	}
}

// Restore creates a State and applies a persisted snapshot. A persisted due
// date replaces the one computed from the start date.
func Restore(rule recurrence.Rule, startDate time.Time, snap Snapshot) *State {
	s := New(rule, startDate)
	if snap.DueDate != nil {
		s.dueDate = mo.Some(startOfDay(*snap.DueDate))
	}
	if snap.LastCompletedDate != nil {
		s.lastCompleted = mo.Some(startOfDay(*snap.LastCompletedDate))
	}
	return s
}

func (s *State) Rule() recurrence.Rule {
	return s.rule
}

func (s *State) StartDate() time.Time {
	return s.startDate
}

func (s *State) DueDate() mo.Option[time.Time] {
	return s.dueDate
}

func (s *State) LastCompletedDate() mo.Option[time.Time] {
	return s.lastCompleted
}

// Complete records today as the completion date and advances the due date.
// The next date is computed from the current due date, so completing early or
// late keeps the cadence; today is used only when nothing is scheduled.
func (s *State) Complete(today time.Time) {
	today = startOfDay(today)
	s.lastCompleted = mo.Some(today)

	base := s.dueDate.OrElse(today)
	s.dueDate = recurrence.Next(s.rule, base)
}

// SetDueDate overrides the due date without consulting the rule.
func (s *State) SetDueDate(date time.Time) {
	s.dueDate = mo.Some(startOfDay(date))
}

// DaysUntilDue returns the signed number of days from today to the due date.
// Past due dates give negative values.
func (s *State) DaysUntilDue(today time.Time) mo.Option[int] {
	due, ok := s.dueDate.Get()
	if !ok {
		return mo.None[int]()
	}
	return mo.Some(daysBetween(today, due))
}

func (s *State) Status(today time.Time) Status {
	return statusFor(s.DaysUntilDue(today))
}

// Snapshot returns the values that must survive a restart.
func (s *State) Snapshot() Snapshot {
	var snap Snapshot
	if due, ok := s.dueDate.Get(); ok {
		snap.DueDate = &due
	}
	if last, ok := s.lastCompleted.Get(); ok {
		snap.LastCompletedDate = &last
	}
	return snap
}
