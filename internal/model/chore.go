package model

import (
	"time"

	"github.com/dukerupert/choretracker/internal/recurrence"
)

// Chore is the stored configuration of a chore plus its persisted state.
type Chore struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Icon              string          `json:"icon"`
	AssignedTo        *int64          `json:"assigned_to"`
	Rule              recurrence.Rule `json:"-"`
	StartDate         time.Time       `json:"start_date"`
	DueDate           *time.Time      `json:"due_date"`
	LastCompletedDate *time.Time      `json:"last_completed_date"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
