package memory

import (
	"context"
	"sort"
	"sync"

	"servirep-backend/domain/catalog"
)

// ProductStore is an in-memory ProductStore for tests and local development.
type ProductStore struct {
	mu   sync.RWMutex
	rows []catalog.Product
}

// NewProductStore creates an empty in-memory product store.
func NewProductStore() *ProductStore {
	return &ProductStore{}
}

// Seed inserts products for test setup.
func (s *ProductStore) Seed(products ...catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, products...)
}

// ListByCategories returns one page of active products, newest first. An
// empty categoryIDs slice means no category restriction.
func (s *ProductStore) ListByCategories(ctx context.Context, categoryIDs []string, limit, offset int) ([]catalog.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		allowed[id] = struct{}{}
	}

	matched := make([]catalog.Product, 0)
	for _, p := range s.rows {
		if !p.IsActive {
			continue
		}
		if len(allowed) > 0 {
			if p.CategoryID == nil {
				continue
			}
			if _, ok := allowed[*p.CategoryID]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []catalog.Product{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
