package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choretracker/internal/calendar"
	"github.com/dukerupert/choretracker/internal/chore"
	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/tracker"
)

type CalendarHandler struct {
	tracker *tracker.Tracker
	clock   clock.Clock
	logger  *slog.Logger
}

func NewCalendarHandler(t *tracker.Tracker, clk clock.Clock, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{tracker: t, clock: clk, logger: logger}
}

// Feed serves every scheduled chore as a VTODO. Unscheduled chores are left
// out; with nothing scheduled the response is 204.
func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	var todos []calendar.Todo
	for _, v := range h.tracker.List() {
		if v.Attributes.DueDate == nil {
			continue
		}
		due, err := time.Parse(time.DateOnly, *v.Attributes.DueDate)
		if err != nil {
			continue
		}
		todos = append(todos, calendar.Todo{
			UID:         v.ID,
			Summary:     v.Name,
			Description: v.Description,
			Due:         due,
			Overdue:     v.State == chore.StatusOverdue,
		})
	}

	if len(todos) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="chores.ics"`)
	if err := calendar.Write(w, todos, h.clock.Now()); err != nil {
		h.logger.Error("write calendar feed", "error", err)
	}
}
