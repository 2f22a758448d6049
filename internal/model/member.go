package model

import (
	"strings"
	"time"
)

// Member is a person chores can be assigned to.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	HasPIN    bool      `json:"has_pin"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FirstName returns the first word of the member's name, or the whole name
// when it has no spaces.
func (m Member) FirstName() string {
	if fields := strings.Fields(m.Name); len(fields) > 0 {
		return fields[0]
	}
	return m.Name
}
