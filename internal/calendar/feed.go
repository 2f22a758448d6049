// Package calendar renders scheduled chores as an iCalendar feed of VTODO
// components.
package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
)

const productID = "-//choretracker//Chore Tracker//EN"

// Todo is one scheduled chore in the feed.
type Todo struct {
	UID         string
	Summary     string
	Description string
	Due         time.Time
	Overdue     bool
}

// Feed builds a calendar with one VTODO per todo. stamp becomes every
// component's DTSTAMP.
func Feed(todos []Todo, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropName, "Chores")

	for _, t := range todos {
		comp := ical.NewComponent(ical.CompToDo)
		comp.Props.SetText(ical.PropUID, t.UID)
		comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		comp.Props.SetText(ical.PropSummary, t.Summary)
		if t.Description != "" {
			comp.Props.SetText(ical.PropDescription, t.Description)
		}
		comp.Props.SetDate(ical.PropDue, t.Due)
		comp.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
		if t.Overdue {
			comp.Props.SetText(ical.PropPriority, "1")
		}
		cal.Children = append(cal.Children, comp)
	}
	return cal
}

// Write encodes the feed to w. A calendar needs at least one component, so
// callers check for an empty list first.
func Write(w io.Writer, todos []Todo, stamp time.Time) error {
	if err := ical.NewEncoder(w).Encode(Feed(todos, stamp)); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
