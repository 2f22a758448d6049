package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/choretracker/internal/model"
	"github.com/dukerupert/choretracker/internal/recurrence"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullInt64
	var rule, startDate string
	var dueDate, lastCompleted sql.NullString

	err := scanner.Scan(
		&c.ID, &c.Name, &c.Icon, &assignedTo, &rule,
		&startDate, &dueDate, &lastCompleted,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if c.Rule, err = recurrence.Parse(rule); err != nil {
		return nil, fmt.Errorf("chore %s: %w", c.ID, err)
	}
	if c.StartDate, err = time.Parse(time.DateOnly, startDate); err != nil {
		return nil, fmt.Errorf("chore %s: start date: %w", c.ID, err)
	}
	if c.DueDate, err = parseDate(dueDate); err != nil {
		return nil, fmt.Errorf("chore %s: due date: %w", c.ID, err)
	}
	if c.LastCompletedDate, err = parseDate(lastCompleted); err != nil {
		return nil, fmt.Errorf("chore %s: last completed date: %w", c.ID, err)
	}
	return &c, nil
}

const choreCols = `id, name, icon, assigned_to, recurrence_rule, start_date, due_date, last_completed_date, created_at, updated_at`

// Create inserts a chore. The caller assigns the ID.
func (s *ChoreStore) Create(c model.Chore) (*model.Chore, error) {
	var aTo sql.NullInt64
	if c.AssignedTo != nil {
		aTo = sql.NullInt64{Int64: *c.AssignedTo, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO chores (id, name, icon, assigned_to, recurrence_rule, start_date, due_date, last_completed_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, aTo, c.Rule.String(), c.StartDate.Format(time.DateOnly),
		formatDate(c.DueDate), formatDate(c.LastCompletedDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	return s.GetByID(c.ID)
}

func (s *ChoreStore) GetByID(id string) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) NameExists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chores WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check chore name: %w", err)
	}
	return count > 0, nil
}

func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()
	return scanChores(rows)
}

func (s *ChoreStore) ListByAssignee(memberID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE assigned_to = ? ORDER BY name ASC, id ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores by assignee: %w", err)
	}
	defer rows.Close()
	return scanChores(rows)
}

func scanChores(rows *sql.Rows) ([]model.Chore, error) {
	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// Update replaces the configuration and state of an existing chore.
func (s *ChoreStore) Update(c model.Chore) error {
	var aTo sql.NullInt64
	if c.AssignedTo != nil {
		aTo = sql.NullInt64{Int64: *c.AssignedTo, Valid: true}
	}

	result, err := s.db.Exec(
		`UPDATE chores SET name = ?, icon = ?, assigned_to = ?, recurrence_rule = ?, start_date = ?, due_date = ?, last_completed_date = ? WHERE id = ?`,
		c.Name, c.Icon, aTo, c.Rule.String(), c.StartDate.Format(time.DateOnly),
		formatDate(c.DueDate), formatDate(c.LastCompletedDate), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update chore: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update chore: chore %s not found", c.ID)
	}
	return nil
}

// SaveState persists the working due date and last completion of a chore.
func (s *ChoreStore) SaveState(id string, dueDate, lastCompleted *time.Time) error {
	result, err := s.db.Exec(
		`UPDATE chores SET due_date = ?, last_completed_date = ? WHERE id = ?`,
		formatDate(dueDate), formatDate(lastCompleted), id,
	)
	if err != nil {
		return fmt.Errorf("save chore state: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save chore state: chore %s not found", id)
	}
	return nil
}

func (s *ChoreStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.DateOnly), Valid: true}
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
