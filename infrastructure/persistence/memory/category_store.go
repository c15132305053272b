// Package memory provides in-memory implementations of the persistence ports
// for tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"servirep-backend/domain/taxonomy"
	apperrors "servirep-backend/pkg/errors"
)

// CategoryStore is an in-memory CategoryStore. It mimics the hosted table's
// behavior: a unique index on lower(slug) and listing ordered by the order
// column with insertion order breaking ties.
type CategoryStore struct {
	mu      sync.RWMutex
	rows    map[string]taxonomy.Category
	seq     map[string]int
	nextSeq int

	// failUpsert injects write failures per category id, for exercising
	// partial batch failures.
	failUpsert map[string]error
}

// NewCategoryStore creates an empty in-memory category store.
func NewCategoryStore() *CategoryStore {
	return &CategoryStore{
		rows:       make(map[string]taxonomy.Category),
		seq:        make(map[string]int),
		failUpsert: make(map[string]error),
	}
}

// Seed inserts categories without validation, for test setup.
func (s *CategoryStore) Seed(categories ...taxonomy.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range categories {
		if _, ok := s.rows[c.ID]; !ok {
			s.seq[c.ID] = s.nextSeq
			s.nextSeq++
		}
		s.rows[c.ID] = c
	}
}

// FailUpsertWith makes subsequent Upsert calls for id return err. Passing a
// nil error clears the injection.
func (s *CategoryStore) FailUpsertWith(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failUpsert, id)
		return
	}
	s.failUpsert[id] = err
}

// List returns every category ordered by order ascending, insertion order on
// ties.
func (s *CategoryStore) List(ctx context.Context) ([]taxonomy.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(taxonomy.Category) bool { return true }), nil
}

// ListRoots returns the categories with no parent.
func (s *CategoryStore) ListRoots(ctx context.Context) ([]taxonomy.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(c taxonomy.Category) bool { return c.IsRoot() }), nil
}

// ListChildren returns the direct children of parentID.
func (s *CategoryStore) ListChildren(ctx context.Context, parentID string) ([]taxonomy.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(c taxonomy.Category) bool {
		return !c.IsRoot() && *c.ParentID == parentID
	}), nil
}

// Upsert creates or replaces a category by id, enforcing slug uniqueness the
// way the hosted table's unique index does.
func (s *CategoryStore) Upsert(ctx context.Context, category taxonomy.Category) (taxonomy.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failUpsert[category.ID]; ok {
		return taxonomy.Category{}, err
	}

	slug := strings.ToLower(category.Slug)
	for id, other := range s.rows {
		if id != category.ID && strings.ToLower(other.Slug) == slug {
			return taxonomy.Category{}, apperrors.NewConflictError("a category with this slug already exists")
		}
	}

	if _, ok := s.rows[category.ID]; !ok {
		s.seq[category.ID] = s.nextSeq
		s.nextSeq++
	}
	s.rows[category.ID] = category
	return category, nil
}

// Delete removes a category by id.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return apperrors.NewNotFoundError("category")
	}
	delete(s.rows, id)
	delete(s.seq, id)
	return nil
}

func (s *CategoryStore) listLocked(keep func(taxonomy.Category) bool) []taxonomy.Category {
	categories := make([]taxonomy.Category, 0, len(s.rows))
	for _, c := range s.rows {
		if keep(c) {
			categories = append(categories, c)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return s.seq[categories[i].ID] < s.seq[categories[j].ID]
	})
	return categories
}
