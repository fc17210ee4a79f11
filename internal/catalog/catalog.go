// Package catalog holds the terminal's read-only snapshot of the dish
// catalog. The catalog itself is owned elsewhere; this cache is replaced
// wholesale by the reconciler.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

// AllCategories selects every dish regardless of category.
const AllCategories = "All"

type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category
	dishes     map[int]domain.Dish
}

func New() *Catalog {
	return &Catalog{dishes: make(map[int]domain.Dish)}
}

func (c *Catalog) ReplaceCategories(categories []domain.Category) {
	next := make([]domain.Category, len(categories))
	copy(next, categories)
	sort.Slice(next, func(i, j int) bool { return next[i].ID < next[j].ID })

	c.mu.Lock()
	c.categories = next
	c.mu.Unlock()
}

func (c *Catalog) ReplaceDishes(dishes []domain.Dish) {
	next := make(map[int]domain.Dish, len(dishes))
	for _, dish := range dishes {
		next[dish.ID] = dish
	}
	c.mu.Lock()
	c.dishes = next
	c.mu.Unlock()
}

func (c *Catalog) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Dish(id int) (domain.Dish, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.dishes[id]
	return d, ok
}

// Filter returns dishes whose name contains search (case-insensitive)
// and, unless category is All or empty, whose category matches exactly.
// Results are ordered by dish id.
func (c *Catalog) Filter(search, category string) []domain.Dish {
	c.mu.RLock()
	defer c.mu.RUnlock()

	search = strings.ToLower(search)
	var out []domain.Dish
	for _, dish := range c.dishes {
		if search != "" && !strings.Contains(strings.ToLower(dish.Name), search) {
			continue
		}
		if category != "" && category != AllCategories && dish.Category != category {
			continue
		}
		out = append(out, dish)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
