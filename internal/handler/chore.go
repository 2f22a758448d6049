package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/recurrence"
	"github.com/dukerupert/choretracker/internal/store"
	"github.com/dukerupert/choretracker/internal/tracker"
	"github.com/dukerupert/choretracker/internal/wizard"
)

type ChoreHandler struct {
	tracker     *tracker.Tracker
	memberStore *store.MemberStore
	clock       clock.Clock
	logger      *slog.Logger
}

func NewChoreHandler(t *tracker.Tracker, ms *store.MemberStore, clk clock.Clock, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{tracker: t, memberStore: ms, clock: clk, logger: logger}
}

// Form returns the wizard steps for ?recurrence_type= (default daily).
func (h *ChoreHandler) Form(w http.ResponseWriter, r *http.Request) {
	typ := strings.TrimSpace(r.URL.Query().Get("recurrence_type"))
	if typ == "" {
		typ = string(recurrence.Daily)
	}
	kind, err := recurrence.ParseKind(typ)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown recurrence type"})
		return
	}
	writeJSON(w, http.StatusOK, wizard.Steps(kind))
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in wizard.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if !h.checkMember(w, in.Person) {
		return
	}

	c, err := wizard.Collect(in, h.clock.Today())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := h.tracker.Create(c)
	if err != nil {
		h.writeTrackerError(w, err, "failed to create chore")
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// Update reconfigures a chore from wizard input. The name stays as created
// and an empty start date keeps the current one.
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	current, err := h.tracker.Get(id)
	if err != nil {
		h.writeTrackerError(w, err, "failed to get chore")
		return
	}

	var in wizard.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if !h.checkMember(w, in.Person) {
		return
	}

	in.Name = current.Name
	if strings.TrimSpace(in.StartDate) == "" {
		in.StartDate = current.StartDate
	}
	c, err := wizard.Collect(in, h.clock.Today())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	view, err := h.tracker.Update(id, c)
	if err != nil {
		h.writeTrackerError(w, err, "failed to update chore")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// checkMember writes an error response and returns false when id names a
// member that does not exist.
func (h *ChoreHandler) checkMember(w http.ResponseWriter, id *int64) bool {
	if id == nil {
		return true
	}
	member, err := h.memberStore.GetByID(*id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check member"})
		return false
	}
	if member == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member not found"})
		return false
	}
	return true
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.List())
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.tracker.Get(r.PathValue("id"))
	if err != nil {
		h.writeTrackerError(w, err, "failed to get chore")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Remove(r.PathValue("id")); err != nil {
		h.writeTrackerError(w, err, "failed to delete chore")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) Complete(w http.ResponseWriter, r *http.Request) {
	view, err := h.tracker.Complete(r.PathValue("id"))
	if err != nil {
		h.writeTrackerError(w, err, "failed to complete chore")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetDueDate accepts {"due_date": "2024-03-10"} or an ISO date-time.
func (h *ChoreHandler) SetDueDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DueDate any `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	view, err := h.tracker.SetDueDate(r.PathValue("id"), req.DueDate)
	if err != nil {
		h.writeTrackerError(w, err, "failed to set due date")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// writeTrackerError maps validation errors to 404/400 with their key and
// everything else to 500.
func (h *ChoreHandler) writeTrackerError(w http.ResponseWriter, err error, msg string) {
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusBadRequest
		if verr.Key == tracker.KeyEntityNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": verr.Error(), "key": verr.Key})
		return
	}
	h.logger.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}
