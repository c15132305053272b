package ports

import (
	"context"

	"servirep-backend/domain/catalog"
	"servirep-backend/domain/taxonomy"
)

// CategoryStore is the taxonomy persistence port. The hosted backend owns the
// rows; implementations translate its errors into the typed taxonomy of
// pkg/errors (validation, conflict, not-found). Eventual consistency on List
// is acceptable: callers re-fetch after any failed write batch.
type CategoryStore interface {
	// List retrieves the full flat category list, ordered by the order column
	// ascending.
	List(ctx context.Context) ([]taxonomy.Category, error)

	// ListRoots retrieves the categories where parent_id is null.
	ListRoots(ctx context.Context) ([]taxonomy.Category, error)

	// ListChildren retrieves the direct children of parentID.
	ListChildren(ctx context.Context, parentID string) ([]taxonomy.Category, error)

	// Upsert creates or updates a category and returns the stored row.
	Upsert(ctx context.Context, category taxonomy.Category) (taxonomy.Category, error)

	// Delete removes a category by id. The has-children guard is enforced by
	// the caller before this is invoked.
	Delete(ctx context.Context, id string) error
}

// ProductStore is the product-listing collaborator port. A nil or empty
// categoryIDs slice means no category restriction, not an empty result.
type ProductStore interface {
	ListByCategories(ctx context.Context, categoryIDs []string, limit, offset int) ([]catalog.Product, int64, error)
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
