// Package registry owns the set of active tables and the allocation of
// new table identifiers.
package registry

import (
	"sort"
	"sync"

	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

type Registry struct {
	mu     sync.RWMutex
	tables map[int]domain.Table
}

func New() *Registry {
	return &Registry{tables: make(map[int]domain.Table)}
}

// Allocate returns the smallest positive integer not used by any active
// table. Freed ids are reused before the range is extended. The result is
// deterministic for a given table set; nothing is persisted here.
func (r *Registry) Allocate() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.tables)
	seen := make([]bool, n+1)
	for id := range r.tables {
		if id > 0 && id <= n {
			seen[id] = true
		}
	}
	for i := 1; i <= n; i++ {
		if !seen[i] {
			return i
		}
	}
	return n + 1
}

func (r *Registry) Add(t domain.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[t.ID] = t
}

func (r *Registry) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, id)
}

func (r *Registry) Get(id int) (domain.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	return t, ok
}

// List returns the active tables ordered by id.
func (r *Registry) List() []domain.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Replace swaps the whole table set for a freshly fetched snapshot.
func (r *Registry) Replace(tables []domain.Table) {
	next := make(map[int]domain.Table, len(tables))
	for _, t := range tables {
		next[t.ID] = t
	}
	r.mu.Lock()
	r.tables = next
	r.mu.Unlock()
}
