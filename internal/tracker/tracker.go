package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/choretracker/internal/chore"
	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/model"
	"github.com/dukerupert/choretracker/internal/websocket"
)

// ChoreRepository persists chore configuration and state.
type ChoreRepository interface {
	Create(c model.Chore) (*model.Chore, error)
	List() ([]model.Chore, error)
	Update(c model.Chore) error
	SaveState(id string, dueDate, lastCompleted *time.Time) error
	Delete(id string) error
}

// MemberLookup resolves assigned members. A nil member with a nil error means
// the member does not exist.
type MemberLookup interface {
	GetByID(id int64) (*model.Member, error)
}

type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// View is the externally visible form of a chore.
type View struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Icon        string           `json:"icon"`
	AssignedTo  *int64           `json:"assigned_to_id,omitempty"`
	Rule        string           `json:"recurrence_rule"`
	Description string           `json:"recurrence_description"`
	StartDate   string           `json:"start_date"`
	State       chore.Status     `json:"state"`
	Attributes  chore.Attributes `json:"attributes"`
}

// Tracker owns the live state of every chore and dispatches operations to
// it by identifier.
type Tracker struct {
	chores   ChoreRepository
	members  MemberLookup
	hub      Broadcaster
	clock    clock.Clock
	registry *Registry
	logger   *slog.Logger
}

func New(chores ChoreRepository, members MemberLookup, hub Broadcaster, clk clock.Clock, logger *slog.Logger) *Tracker {
	return &Tracker{
		chores:   chores,
		members:  members,
		hub:      hub,
		clock:    clk,
		registry: NewRegistry(),
		logger:   logger,
	}
}

func (t *Tracker) broadcast(msg websocket.Message) {
	if t.hub != nil {
		t.hub.Broadcast(msg)
	}
}

// Load restores every stored chore into the registry. A persisted due date
// wins over the one computed from the start date.
func (t *Tracker) Load() error {
	chores, err := t.chores.List()
	if err != nil {
		return fmt.Errorf("load chores: %w", err)
	}
	for _, c := range chores {
		state := chore.Restore(c.Rule, c.StartDate, chore.Snapshot{
			DueDate:           c.DueDate,
			LastCompletedDate: c.LastCompletedDate,
		})
		t.registry.add(&entry{chore: c, state: state})
	}
	t.logger.Info("chores loaded", "count", len(chores))
	return nil
}

func normalize(c *model.Chore) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalidChore(errors.New("name is required"))
	}
	if err := c.Rule.Validate(); err != nil {
		return invalidChore(err)
	}
	if c.Icon == "" {
		c.Icon = "mdi:broom"
	}
	return nil
}

// Create validates and stores a new chore under a fresh identifier and
// computes its first due date.
func (t *Tracker) Create(c model.Chore) (View, error) {
	if err := normalize(&c); err != nil {
		return View{}, err
	}

	c.ID = uuid.NewString()
	state := chore.New(c.Rule, c.StartDate)
	snap := state.Snapshot()
	c.StartDate = state.StartDate()
	c.DueDate = snap.DueDate
	c.LastCompletedDate = nil

	stored, err := t.chores.Create(c)
	if err != nil {
		return View{}, fmt.Errorf("create chore: %w", err)
	}

	e := &entry{chore: *stored, state: state}
	t.registry.add(e)

	v := t.view(e)
	t.logger.Info("chore created", "chore_id", v.ID, "name", v.Name, "rule", v.Rule)
	t.broadcast(websocket.NewMessage("chore", "created", v.ID, v))
	return v, nil
}

func (t *Tracker) Get(id string) (View, error) {
	e, err := t.registry.lookup(id)
	if err != nil {
		return View{}, notFound(id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return View{}, notFound(id)
	}
	return t.view(e), nil
}

// List returns every chore ordered by name.
func (t *Tracker) List() []View {
	entries := t.registry.all()
	views := make([]View, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			views = append(views, t.view(e))
		}
		e.mu.Unlock()
	}
	return views
}

// Complete marks the chore done today and advances its due date.
func (t *Tracker) Complete(id string) (View, error) {
	e, err := t.registry.lookup(id)
	if err != nil {
		t.logger.Warn("complete: unknown chore", "chore_id", id)
		return View{}, notFound(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return View{}, notFound(id)
	}

	prev := *e.state
	e.state.Complete(t.clock.Today())
	if err := t.persist(e); err != nil {
		*e.state = prev
		return View{}, err
	}

	v := t.view(e)
	t.logger.Debug("chore completed", "chore_id", id, "due_date", v.Attributes.DueDate)
	t.broadcast(websocket.NewMessage("chore", "completed", id, v))
	return v, nil
}

// SetDueDate overrides the chore's due date. value may be a time.Time or a
// string holding a calendar date or an ISO date-time; only the calendar date
// is kept.
func (t *Tracker) SetDueDate(id string, value any) (View, error) {
	e, err := t.registry.lookup(id)
	if err != nil {
		t.logger.Warn("set due date: unknown chore", "chore_id", id)
		return View{}, notFound(id)
	}

	date, err := ParseDate(value)
	if err != nil {
		t.logger.Error("set due date: invalid date", "chore_id", id, "value", value)
		return View{}, invalidDate(id, value)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return View{}, notFound(id)
	}

	prev := *e.state
	e.state.SetDueDate(date)
	if err := t.persist(e); err != nil {
		*e.state = prev
		return View{}, err
	}

	v := t.view(e)
	t.logger.Debug("due date set", "chore_id", id, "due_date", date.Format(time.DateOnly))
	t.broadcast(websocket.NewMessage("chore", "due_date_set", id, v))
	return v, nil
}

// Update replaces the chore's icon, assignee, rule and start date. The state
// is rebuilt from the new rule and start date, keeping only the last
// completion date. The name is fixed at creation.
func (t *Tracker) Update(id string, c model.Chore) (View, error) {
	e, err := t.registry.lookup(id)
	if err != nil {
		t.logger.Warn("update: unknown chore", "chore_id", id)
		return View{}, notFound(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return View{}, notFound(id)
	}

	c.Name = e.chore.Name
	if err := normalize(&c); err != nil {
		return View{}, err
	}

	state := chore.Restore(c.Rule, c.StartDate, chore.Snapshot{
		LastCompletedDate: e.state.Snapshot().LastCompletedDate,
	})
	snap := state.Snapshot()
	c.ID = id
	c.StartDate = state.StartDate()
	c.DueDate = snap.DueDate
	c.LastCompletedDate = snap.LastCompletedDate
	c.CreatedAt = e.chore.CreatedAt
	c.UpdatedAt = e.chore.UpdatedAt

	if err := t.chores.Update(c); err != nil {
		t.logger.Error("update chore", "chore_id", id, "error", err)
		return View{}, fmt.Errorf("update chore %s: %w", id, err)
	}
	e.chore = c
	e.state = state

	v := t.view(e)
	t.logger.Info("chore updated", "chore_id", id, "rule", v.Rule)
	t.broadcast(websocket.NewMessage("chore", "updated", id, v))
	return v, nil
}

// Remove deletes the chore and forgets its state.
func (t *Tracker) Remove(id string) error {
	e, err := t.registry.lookup(id)
	if err != nil {
		return notFound(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return notFound(id)
	}

	if err := t.chores.Delete(id); err != nil {
		return fmt.Errorf("remove chore %s: %w", id, err)
	}
	e.removed = true
	t.registry.remove(id)

	t.logger.Info("chore removed", "chore_id", id)
	t.broadcast(websocket.NewMessage("chore", "deleted", id, nil))
	return nil
}

// Len returns the number of tracked chores.
func (t *Tracker) Len() int {
	return t.registry.Len()
}

// StatusMessages returns one chore_status message per chore, reflecting
// today's status.
func (t *Tracker) StatusMessages() []websocket.Message {
	views := t.List()
	msgs := make([]websocket.Message, 0, len(views))
	for _, v := range views {
		msgs = append(msgs, websocket.NewMessage("chore", "status", v.ID, v))
	}
	return msgs
}

func (t *Tracker) persist(e *entry) error {
	snap := e.state.Snapshot()
	if err := t.chores.SaveState(e.chore.ID, snap.DueDate, snap.LastCompletedDate); err != nil {
		t.logger.Error("persist chore state", "chore_id", e.chore.ID, "error", err)
		return fmt.Errorf("persist chore %s: %w", e.chore.ID, err)
	}
	e.chore.DueDate = snap.DueDate
	e.chore.LastCompletedDate = snap.LastCompletedDate
	return nil
}

// view must be called with e.mu held.
func (t *Tracker) view(e *entry) View {
	today := t.clock.Today()
	return View{
		ID:          e.chore.ID,
		Name:        e.chore.Name,
		Icon:        e.chore.Icon,
		AssignedTo:  e.chore.AssignedTo,
		Rule:        e.chore.Rule.String(),
		Description: e.chore.Rule.Describe(),
		StartDate:   e.state.StartDate().Format(time.DateOnly),
		State:       e.state.Status(today),
		Attributes:  e.state.Attributes(today, t.assigneeLabel(e.chore.AssignedTo)),
	}
}

// assigneeLabel returns the first name of the assigned member, or
// "member-<id>" when the member cannot be found.
func (t *Tracker) assigneeLabel(id *int64) string {
	if id == nil {
		return ""
	}
	fallback := fmt.Sprintf("member-%d", *id)
	if t.members == nil {
		return fallback
	}
	m, err := t.members.GetByID(*id)
	if err != nil {
		t.logger.Warn("lookup assigned member", "member_id", *id, "error", err)
		return fallback
	}
	if m == nil {
		return fallback
	}
	return m.FirstName()
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate normalises a due date value to a calendar date at UTC midnight.
// Date-times keep the calendar date they were written with.
func ParseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return dateOf(v), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrInvalidDate
		}
		return dateOf(*v), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOf(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, value)
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
