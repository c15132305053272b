package services

import (
	"context"

	"servirep-backend/application/ports"
	"servirep-backend/domain/catalog"
	"servirep-backend/domain/taxonomy"
	apperrors "servirep-backend/pkg/errors"

	"go.uber.org/zap"
)

const publicTreeCacheKey = "catalog:tree"

// CatalogService is the public face of the catalog: the active-only category
// tree and the product listing that consumes composed category filters.
type CatalogService struct {
	categories ports.CategoryStore
	products   ports.ProductStore
	cache      ports.Cache
	treeTTL    int // seconds
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	categories ports.CategoryStore,
	products ports.ProductStore,
	cache ports.Cache,
	treeTTL int,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		cache:      cache,
		treeTTL:    treeTTL,
		logger:     logger,
	}
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items    []catalog.Product `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// PublicTree returns the category tree restricted to active categories,
// served from a short-lived cache. Inactive categories stay visible in the
// admin listing only.
func (s *CatalogService) PublicTree(ctx context.Context) (taxonomy.Tree, error) {
	if cached, ok := s.cache.Get(ctx, publicTreeCacheKey); ok {
		if tree, ok := cached.(taxonomy.Tree); ok {
			return tree, nil
		}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return taxonomy.Tree{}, apperrors.Wrap(err, "failed to list categories")
	}

	active := make([]taxonomy.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsActive {
			active = append(active, c)
		}
	}

	tree := taxonomy.BuildTree(active)
	if err := s.cache.Set(ctx, publicTreeCacheKey, tree, s.treeTTL); err != nil {
		s.logger.Warn("failed to cache category tree", zap.Error(err))
	}
	return tree, nil
}

// InvalidateTree drops the cached public tree after an admin mutation.
func (s *CatalogService) InvalidateTree(ctx context.Context) {
	if err := s.cache.Delete(ctx, publicTreeCacheKey); err != nil {
		s.logger.Warn("failed to invalidate category tree cache", zap.Error(err))
	}
}

// ListProducts expands the selected category ids into their descendant
// closures, unions them, and queries the product store. An empty selection
// means no category restriction at all, not an empty result.
func (s *CatalogService) ListProducts(ctx context.Context, selectedCategoryIDs []string, page, pageSize int) (*ProductPage, error) {
	var filterIDs []string
	if len(selectedCategoryIDs) > 0 {
		categories, err := s.categories.List(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list categories")
		}

		filter, cycle := taxonomy.ComposeFilter(selectedCategoryIDs, categories)
		if cycle {
			// Corrupted parent data outside this subsystem's control; the
			// partial closure is still served.
			s.logger.Warn("cycle detected in category data",
				zap.Strings("selected", selectedCategoryIDs),
			)
		}
		filterIDs = taxonomy.FilterIDs(filter)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	items, total, err := s.products.ListByCategories(ctx, filterIDs, pageSize, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list products")
	}

	return &ProductPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
