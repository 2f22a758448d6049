package store

import (
	"testing"
	"time"

	"github.com/dukerupert/choretracker/internal/database"
	"github.com/dukerupert/choretracker/internal/model"
	"github.com/dukerupert/choretracker/internal/recurrence"
)

func setupChoreTestDB(t *testing.T) (*ChoreStore, *MemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewChoreStore(db), NewMemberStore(db)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newChore(id, name string) model.Chore {
	return model.Chore{
		ID:        id,
		Name:      name,
		Icon:      "mdi:broom",
		Rule:      recurrence.Rule{Kind: recurrence.Weekly, Interval: 2, Weekdays: []time.Weekday{time.Monday, time.Friday}},
		StartDate: date(2024, 3, 1),
	}
}

func TestChoreCreateAndGet(t *testing.T) {
	cs, _ := setupChoreTestDB(t)

	due := date(2024, 3, 4)
	c := newChore("c1", "Vacuum")
	c.DueDate = &due

	created, err := cs.Create(c)
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if created.Name != "Vacuum" {
		t.Errorf("name = %q, want %q", created.Name, "Vacuum")
	}
	if created.Rule.String() != c.Rule.String() {
		t.Errorf("rule = %s, want %s", created.Rule, c.Rule)
	}
	if !created.StartDate.Equal(c.StartDate) {
		t.Errorf("start date = %v, want %v", created.StartDate, c.StartDate)
	}
	if created.DueDate == nil || !created.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", created.DueDate, due)
	}
	if created.LastCompletedDate != nil {
		t.Errorf("last completed = %v, want nil", created.LastCompletedDate)
	}
	if created.AssignedTo != nil {
		t.Errorf("assigned to = %v, want nil", created.AssignedTo)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestChoreGetByIDNotFound(t *testing.T) {
	cs, _ := setupChoreTestDB(t)

	c, err := cs.GetByID("missing")
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}
}

func TestChoreListOrderedByName(t *testing.T) {
	cs, _ := setupChoreTestDB(t)

	for _, c := range []model.Chore{newChore("a", "Water plants"), newChore("b", "Dust shelves"), newChore("c", "Mop")} {
		if _, err := cs.Create(c); err != nil {
			t.Fatalf("create %s: %v", c.Name, err)
		}
	}

	chores, err := cs.List()
	if err != nil {
		t.Fatalf("list chores: %v", err)
	}
	want := []string{"Dust shelves", "Mop", "Water plants"}
	if len(chores) != len(want) {
		t.Fatalf("got %d chores, want %d", len(chores), len(want))
	}
	for i, name := range want {
		if chores[i].Name != name {
			t.Errorf("chores[%d] = %q, want %q", i, chores[i].Name, name)
		}
	}
}

func TestChoreSaveState(t *testing.T) {
	cs, _ := setupChoreTestDB(t)
	if _, err := cs.Create(newChore("c1", "Vacuum")); err != nil {
		t.Fatalf("create chore: %v", err)
	}

	due := date(2024, 3, 15)
	last := date(2024, 3, 4)
	if err := cs.SaveState("c1", &due, &last); err != nil {
		t.Fatalf("save state: %v", err)
	}

	got, err := cs.GetByID("c1")
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", got.DueDate, due)
	}
	if got.LastCompletedDate == nil || !got.LastCompletedDate.Equal(last) {
		t.Errorf("last completed = %v, want %v", got.LastCompletedDate, last)
	}

	// Clearing the due date persists NULL.
	if err := cs.SaveState("c1", nil, &last); err != nil {
		t.Fatalf("save state: %v", err)
	}
	got, _ = cs.GetByID("c1")
	if got.DueDate != nil {
		t.Errorf("due = %v, want nil", got.DueDate)
	}
}

func TestChoreSaveStateUnknownChore(t *testing.T) {
	cs, _ := setupChoreTestDB(t)
	if err := cs.SaveState("missing", nil, nil); err == nil {
		t.Error("expected error for unknown chore")
	}
}

func TestChoreNameExists(t *testing.T) {
	cs, _ := setupChoreTestDB(t)
	if _, err := cs.Create(newChore("c1", "Vacuum")); err != nil {
		t.Fatalf("create chore: %v", err)
	}

	exists, err := cs.NameExists("Vacuum")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Error("expected Vacuum to exist")
	}
	exists, _ = cs.NameExists("Laundry")
	if exists {
		t.Error("expected Laundry not to exist")
	}
}

func TestChoreListByAssignee(t *testing.T) {
	cs, ms := setupChoreTestDB(t)

	alex, err := ms.Create("Alex Smith")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	assigned := newChore("c1", "Vacuum")
	assigned.AssignedTo = &alex.ID
	if _, err := cs.Create(assigned); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if _, err := cs.Create(newChore("c2", "Dishes")); err != nil {
		t.Fatalf("create chore: %v", err)
	}

	chores, err := cs.ListByAssignee(alex.ID)
	if err != nil {
		t.Fatalf("list by assignee: %v", err)
	}
	if len(chores) != 1 || chores[0].ID != "c1" {
		t.Errorf("got %+v, want only c1", chores)
	}
}

func TestDeleteMemberSetsNullOnChore(t *testing.T) {
	cs, ms := setupChoreTestDB(t)

	alex, _ := ms.Create("Alex")
	c := newChore("c1", "Vacuum")
	c.AssignedTo = &alex.ID
	if _, err := cs.Create(c); err != nil {
		t.Fatalf("create chore: %v", err)
	}

	if err := ms.Delete(alex.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	got, err := cs.GetByID("c1")
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.AssignedTo != nil {
		t.Errorf("assigned to = %v, want nil after member delete", *got.AssignedTo)
	}
}

func TestChoreDelete(t *testing.T) {
	cs, _ := setupChoreTestDB(t)
	if _, err := cs.Create(newChore("c1", "Vacuum")); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if err := cs.Delete("c1"); err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	got, err := cs.GetByID("c1")
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted chore")
	}
}

func TestChoreLegacyMonthlyRule(t *testing.T) {
	cs, _ := setupChoreTestDB(t)

	_, err := cs.db.Exec(
		`INSERT INTO chores (id, name, recurrence_rule, start_date) VALUES ('old', 'Filters', 'KIND=monthly;BYMONTHDAY=1', '2024-01-01')`,
	)
	if err != nil {
		t.Fatalf("insert legacy chore: %v", err)
	}

	got, err := cs.GetByID("old")
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.Rule.Kind != recurrence.MonthlyByDate {
		t.Errorf("kind = %q, want %q", got.Rule.Kind, recurrence.MonthlyByDate)
	}
}

func TestChoreUpdate(t *testing.T) {
	cs, ms := setupChoreTestDB(t)
	if _, err := cs.Create(newChore("c1", "Vacuum")); err != nil {
		t.Fatalf("create chore: %v", err)
	}
	sam, _ := ms.Create("Sam")

	last := date(2024, 3, 4)
	due := date(2024, 4, 1)
	updated := model.Chore{
		ID:                "c1",
		Name:              "Vacuum",
		Icon:              "mdi:vacuum",
		AssignedTo:        &sam.ID,
		Rule:              recurrence.Rule{Kind: recurrence.MonthlyByDate, Interval: 1, DayOfMonth: 1},
		StartDate:         date(2024, 3, 10),
		DueDate:           &due,
		LastCompletedDate: &last,
	}
	if err := cs.Update(updated); err != nil {
		t.Fatalf("update chore: %v", err)
	}

	got, err := cs.GetByID("c1")
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got.Icon != "mdi:vacuum" || got.AssignedTo == nil || *got.AssignedTo != sam.ID {
		t.Errorf("got %+v", got)
	}
	if got.Rule.String() != updated.Rule.String() {
		t.Errorf("rule = %s, want %s", got.Rule, updated.Rule)
	}
	if !got.StartDate.Equal(updated.StartDate) {
		t.Errorf("start date = %v, want %v", got.StartDate, updated.StartDate)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due = %v, want %v", got.DueDate, due)
	}
	if got.LastCompletedDate == nil || !got.LastCompletedDate.Equal(last) {
		t.Errorf("last completed = %v, want %v", got.LastCompletedDate, last)
	}

	updated.ID = "missing"
	if err := cs.Update(updated); err == nil {
		t.Error("expected error for unknown chore")
	}
}
