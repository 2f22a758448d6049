package clock

import (
	"sync"
	"time"
)

// Clock supplies the current calendar date.
type Clock interface {
	Today() time.Time
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

// Today returns midnight of the current date in the clock's location.
func (c System) Today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (c System) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// Fixed reports the same date until Set moves it.
type Fixed struct {
	mu   sync.Mutex
	date time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{date: t}
}

func (c *Fixed) Today() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Date(c.date.Year(), c.date.Month(), c.date.Day(), 0, 0, 0, 0, c.date.Location())
}

// Now returns the instant the clock was set to.
func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.date
}

func (c *Fixed) Set(t time.Time) {
	c.mu.Lock()
	c.date = t
	c.mu.Unlock()
}
