// Package ledger owns the in-memory mapping of table -> dish -> quantity.
// Mutations are optimistic: the local line changes first and the store is
// brought up to date by the caller, while reconciliation snapshots are
// merged back in by line version.
package ledger

import (
	"sort"
	"sync"

	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

type key struct{ tableID, dishID int }

type Ledger struct {
	mu      sync.RWMutex
	lines   map[int]map[int]domain.Line
	pending map[key]int // persistence calls in flight per line
}

func New() *Ledger {
	return &Ledger{
		lines:   make(map[int]map[int]domain.Line),
		pending: make(map[key]int),
	}
}

// Add creates the line with quantity 1 or increments it by 1, bumps the
// line version and marks one persistence call in flight. It always
// succeeds locally.
func (l *Ledger) Add(tableID, dishID int) domain.Line {
	l.mu.Lock()
	defer l.mu.Unlock()

	byDish := l.lines[tableID]
	if byDish == nil {
		byDish = make(map[int]domain.Line)
		l.lines[tableID] = byDish
	}

	line, ok := byDish[dishID]
	if !ok {
		line = domain.Line{TableID: tableID, DishID: dishID}
	}
	line.Quantity++
	line.Version++
	byDish[dishID] = line
	l.pending[key{tableID, dishID}]++
	return line
}

// Remove walks the quantity back one step: quantity > 1 decrements, a
// quantity of exactly 1 collapses the line to absence. ok reports whether
// a line existed at all; when it did not, nothing changes and the caller
// logs the anomaly. removed reports a collapse.
func (l *Ledger) Remove(tableID, dishID int) (line domain.Line, removed, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byDish := l.lines[tableID]
	line, ok = byDish[dishID]
	if !ok {
		return domain.Line{}, false, false
	}

	if line.Quantity > 1 {
		line.Quantity--
		line.Version++
		byDish[dishID] = line
	} else {
		delete(byDish, dishID)
		line.Quantity = 0
		removed = true
	}
	l.pending[key{tableID, dishID}]++
	return line, removed, true
}

// Confirm records completion of one persistence call for the pair, whether
// it landed or failed. A storedVersion > 0 adopts the store's version when
// it is ahead of the local one.
func (l *Ledger) Confirm(tableID, dishID int, storedVersion int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{tableID, dishID}
	if l.pending[k] > 0 {
		l.pending[k]--
		if l.pending[k] == 0 {
			delete(l.pending, k)
		}
	}
	if storedVersion > 0 {
		if line, ok := l.lines[tableID][dishID]; ok && storedVersion > line.Version {
			line.Version = storedVersion
			l.lines[tableID][dishID] = line
		}
	}
}

func (l *Ledger) Quantity(tableID, dishID int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lines[tableID][dishID].Quantity
}

// Lines returns the table's lines ordered by dish id.
func (l *Ledger) Lines(tableID int) []domain.Line {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Line, 0, len(l.lines[tableID]))
	for _, line := range l.lines[tableID] {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DishID < out[j].DishID })
	return out
}

// ClearTable drops every line of the table, used at closeout and when the
// table itself is removed.
func (l *Ledger) ClearTable(tableID int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.lines, tableID)
}

// ApplySnapshot merges a full fetched order-line snapshot into the ledger:
//
//   - a line with a persistence call in flight keeps its local state,
//     whatever the snapshot says;
//   - otherwise a fetched line wins unless the local version is newer
//     (a stale snapshot read before our write landed);
//   - settled local lines absent from the snapshot were deleted remotely
//     and are dropped.
//
// Applying the same snapshot twice leaves the ledger unchanged.
func (l *Ledger) ApplySnapshot(fetched []domain.Line) {
	l.mu.Lock()
	defer l.mu.Unlock()

	byKey := make(map[key]domain.Line, len(fetched))
	for _, line := range fetched {
		byKey[key{line.TableID, line.DishID}] = line
	}

	for tableID, byDish := range l.lines {
		for dishID, local := range byDish {
			k := key{tableID, dishID}
			if l.pending[k] > 0 {
				delete(byKey, k)
				continue
			}
			remote, ok := byKey[k]
			if !ok {
				delete(byDish, dishID)
				continue
			}
			if remote.Version >= local.Version {
				byDish[dishID] = remote
			}
			delete(byKey, k)
		}
		if len(byDish) == 0 {
			delete(l.lines, tableID)
		}
	}

	// remaining fetched lines are new to this terminal
	for k, line := range byKey {
		if l.pending[k] > 0 {
			continue
		}
		byDish := l.lines[k.tableID]
		if byDish == nil {
			byDish = make(map[int]domain.Line)
			l.lines[k.tableID] = byDish
		}
		byDish[k.dishID] = line
	}
}
