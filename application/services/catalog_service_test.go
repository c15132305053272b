package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servirep-backend/domain/catalog"
	"servirep-backend/domain/taxonomy"
	"servirep-backend/infrastructure/persistence/memory"
)

// testCache is a minimal Cache for wiring the service under test; TTLs are
// ignored because no test sleeps past one.
type testCache struct {
	entries map[string]interface{}
}

func newTestCache() *testCache {
	return &testCache{entries: make(map[string]interface{})}
}

func (c *testCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *testCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.entries[key] = value
	return nil
}

func (c *testCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *testCache) Clear(ctx context.Context) error {
	c.entries = make(map[string]interface{})
	return nil
}

func newCatalogService(t *testing.T) (*CatalogService, *memory.CategoryStore, *memory.ProductStore) {
	t.Helper()
	categories := seedScenario(t)
	products := memory.NewProductStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	products.Seed(
		catalog.Product{ID: "p1", CategoryID: strPtr("c1"), Name: "Switch 24p", Slug: "switch-24p", IsActive: true, CreatedAt: base},
		catalog.Product{ID: "p2", CategoryID: strPtr("c2"), Name: "Router LTE", Slug: "router-lte", IsActive: true, CreatedAt: base.Add(time.Hour)},
		catalog.Product{ID: "p3", CategoryID: strPtr("r2"), Name: "Domo IP", Slug: "domo-ip", IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
		catalog.Product{ID: "p4", CategoryID: strPtr("c1"), Name: "Switch 8p", Slug: "switch-8p", IsActive: false, CreatedAt: base.Add(3 * time.Hour)},
		catalog.Product{ID: "p5", CategoryID: nil, Name: "Genérico", Slug: "generico", IsActive: true, CreatedAt: base.Add(4 * time.Hour)},
	)

	svc := NewCatalogService(categories, products, newTestCache(), 60, zap.NewNop())
	return svc, categories, products
}

func productIDs(items []catalog.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestListProducts(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		selected []string
		wantIDs  []string
	}{
		{
			name:     "empty selection lists everything active",
			selected: nil,
			wantIDs:  []string{"p5", "p3", "p2", "p1"},
		},
		{
			name:     "root selection includes descendants",
			selected: []string{"r1"},
			wantIDs:  []string{"p2", "p1"},
		},
		{
			name:     "leaf selection",
			selected: []string{"c1"},
			wantIDs:  []string{"p1"},
		},
		{
			name:     "union of selections",
			selected: []string{"c1", "r2"},
			wantIDs:  []string{"p3", "p1"},
		},
		{
			name:     "unknown category matches nothing",
			selected: []string{"ghost"},
			wantIDs:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListProducts(ctx, tt.selected, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, productIDs(page.Items))
			assert.Equal(t, int64(len(tt.wantIDs)), page.Total)
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	ctx := context.Background()

	page, err := svc.ListProducts(ctx, nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p5", "p3"}, productIDs(page.Items))
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)

	page, err = svc.ListProducts(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, productIDs(page.Items))

	page, err = svc.ListProducts(ctx, nil, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// Out-of-range values fall back to defaults.
	page, err = svc.ListProducts(ctx, nil, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}

func TestPublicTree(t *testing.T) {
	svc, categories, _ := newCatalogService(t)
	ctx := context.Background()

	categories.Seed(taxonomy.Category{
		ID: "hidden", Name: "Oculta", Slug: "oculta", Order: 9, IsActive: false,
	})

	tree, err := svc.PublicTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Roots, 2, "inactive roots are excluded")
	assert.Equal(t, "r1", tree.Roots[0].ID)
	assert.Equal(t, "r2", tree.Roots[1].ID)
	assert.Len(t, tree.ChildrenOf["r1"], 2)
}

func TestPublicTree_CacheAndInvalidation(t *testing.T) {
	svc, categories, _ := newCatalogService(t)
	ctx := context.Background()

	tree, err := svc.PublicTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Roots, 2)

	// A store change is invisible until the cache is dropped.
	categories.Seed(taxonomy.Category{
		ID: "r3", Name: "Telefonía", Slug: "telefonia", Order: 3, IsActive: true,
	})

	tree, err = svc.PublicTree(ctx)
	require.NoError(t, err)
	assert.Len(t, tree.Roots, 2, "served from cache")

	svc.InvalidateTree(ctx)

	tree, err = svc.PublicTree(ctx)
	require.NoError(t, err)
	assert.Len(t, tree.Roots, 3, "rebuilt after invalidation")
}
