// Package memory provides a process-local implementation of database.Store.
// Nothing is persisted; the catalogue lives for the lifetime of the process.
package memory

import (
	"sort"
	"sync"

	"teapot/internal/database"
	"teapot/internal/models"
)

var _ database.Store = (*Store)(nil)

// Store keeps all four collections behind a single mutex. Entities are
// copied on the way in and on the way out so callers never share memory
// with the store.
type Store struct {
	mu      sync.Mutex
	teapots *collection[models.Teapot]
	teas    *collection[models.Tea]
	brews   *collection[models.Brew]
	steeps  *collection[models.Steep]
}

func New() *Store {
	return &Store{
		teapots: newCollection((*models.Teapot).Clone),
		teas:    newCollection((*models.Tea).Clone),
		brews:   newCollection((*models.Brew).Clone),
		steeps:  newCollection((*models.Steep).Clone),
	}
}

// collection is an id-keyed map that remembers insertion order.
// It is not safe for concurrent use; Store serialises access.
type collection[T any] struct {
	items map[string]*T
	order []string
	clone func(*T) *T
}

func newCollection[T any](clone func(*T) *T) *collection[T] {
	return &collection[T]{items: make(map[string]*T), clone: clone}
}

func (c *collection[T]) insert(id string, v *T) {
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = c.clone(v)
}

func (c *collection[T]) get(id string) (*T, bool) {
	v, ok := c.items[id]
	if !ok {
		return nil, false
	}
	return c.clone(v), true
}

func (c *collection[T]) replace(id string, v *T) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	c.items[id] = c.clone(v)
	return true
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// removeWhere deletes every item for which match returns true.
func (c *collection[T]) removeWhere(match func(*T) bool) int {
	kept := c.order[:0]
	removed := 0
	for _, id := range c.order {
		if match(c.items[id]) {
			delete(c.items, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed
}

// filter returns the stored pointers that match, in insertion order.
// Callers must clone before handing them out.
func (c *collection[T]) filter(match func(*T) bool) []*T {
	out := make([]*T, 0)
	for _, id := range c.order {
		if v := c.items[id]; match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *collection[T]) count() int { return len(c.items) }

func (c *collection[T]) reset() {
	c.items = make(map[string]*T)
	c.order = nil
}

// page clones the requested window of matches and reports the total.
func page[T any](matches []*T, p models.Page, clone func(*T) *T) ([]*T, int) {
	start, end := p.Bounds(len(matches))
	out := make([]*T, 0, end-start)
	for _, v := range matches[start:end] {
		out = append(out, clone(v))
	}
	return out, len(matches)
}

// ========== Teapots ==========

func (s *Store) CreateTeapot(t *models.Teapot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teapots.insert(t.ID, t)
}

func (s *Store) GetTeapot(id string) (*models.Teapot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teapots.get(id)
}

func (s *Store) ListTeapots(f models.TeapotFilter, p models.Page) ([]*models.Teapot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.teapots.filter(f.Match), p, s.teapots.clone)
}

func (s *Store) UpdateTeapot(t *models.Teapot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teapots.replace(t.ID, t)
}

// DeleteTeapot leaves brews that reference the teapot in place.
func (s *Store) DeleteTeapot(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teapots.remove(id)
}

// ========== Teas ==========

func (s *Store) CreateTea(t *models.Tea) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teas.insert(t.ID, t)
}

func (s *Store) GetTea(id string) (*models.Tea, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teas.get(id)
}

func (s *Store) ListTeas(f models.TeaFilter, p models.Page) ([]*models.Tea, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.teas.filter(f.Match), p, s.teas.clone)
}

func (s *Store) UpdateTea(t *models.Tea) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teas.replace(t.ID, t)
}

func (s *Store) DeleteTea(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teas.remove(id)
}

// ========== Brews ==========

func (s *Store) CreateBrew(b *models.Brew) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brews.insert(b.ID, b)
}

func (s *Store) GetBrew(id string) (*models.Brew, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brews.get(id)
}

func (s *Store) ListBrews(f models.BrewFilter, p models.Page) ([]*models.Brew, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.brews.filter(f.Match), p, s.brews.clone)
}

func (s *Store) ListBrewsByTeapot(teapotID string, p models.Page) ([]*models.Brew, int) {
	return s.ListBrews(models.BrewFilter{TeapotID: teapotID}, p)
}

func (s *Store) UpdateBrew(b *models.Brew) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brews.replace(b.ID, b)
}

func (s *Store) DeleteBrew(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.brews.remove(id) {
		return false
	}
	s.steeps.removeWhere(func(st *models.Steep) bool { return st.BrewID == id })
	return true
}

// ========== Steeps ==========

func (s *Store) CreateSteep(st *models.Steep) (*models.Steep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.brews.items[st.BrewID]; !ok {
		return nil, false
	}
	stored := st.Clone()
	stored.SteepNumber = s.nextSteepNumber(st.BrewID)
	s.steeps.insert(stored.ID, stored)
	return stored, true
}

func (s *Store) GetSteep(id string) (*models.Steep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steeps.get(id)
}

// ListSteepsByBrew returns steeps ordered by steep number.
func (s *Store) ListSteepsByBrew(brewID string, p models.Page) ([]*models.Steep, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := s.steeps.filter(func(st *models.Steep) bool { return st.BrewID == brewID })
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SteepNumber < matches[j].SteepNumber
	})
	return page(matches, p, s.steeps.clone)
}

// NextSteepNumber reports the number the next steep of brewID would get.
func (s *Store) NextSteepNumber(brewID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSteepNumber(brewID)
}

func (s *Store) nextSteepNumber(brewID string) int {
	highest := 0
	for _, st := range s.steeps.items {
		if st.BrewID == brewID && st.SteepNumber > highest {
			highest = st.SteepNumber
		}
	}
	return highest + 1
}

// ========== Maintenance ==========

func (s *Store) Stats() database.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return database.Stats{
		Teapots: s.teapots.count(),
		Teas:    s.teas.count(),
		Brews:   s.brews.count(),
		Steeps:  s.steeps.count(),
	}
}

// Clear empties every collection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teapots.reset()
	s.teas.reset()
	s.brews.reset()
	s.steeps.reset()
}
