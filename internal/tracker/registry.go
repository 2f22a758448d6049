package tracker

import (
	"slices"
	"strings"
	"sync"

	"github.com/dukerupert/choretracker/internal/chore"
	"github.com/dukerupert/choretracker/internal/model"
)

// entry pairs a chore's stored configuration with its live state. mu
// serialises operations on the one chore. removed is set under mu once the
// chore is deleted, for callers that looked the entry up before the delete.
type entry struct {
	mu      sync.Mutex
	chore   model.Chore
	state   *chore.State
	removed bool
}

// Registry maps chore identifiers to live entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) add(e *entry) {
	r.mu.Lock()
	r.entries[e.chore.ID] = e
	r.mu.Unlock()
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// all returns every entry ordered by chore name, then identifier.
func (r *Registry) all() []*entry {
	r.mu.RLock()
	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *entry) int {
		if c := strings.Compare(a.chore.Name, b.chore.Name); c != 0 {
			return c
		}
		return strings.Compare(a.chore.ID, b.chore.ID)
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
