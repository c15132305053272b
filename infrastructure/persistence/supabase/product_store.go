package supabase

import (
	"context"
	"time"

	"servirep-backend/domain/catalog"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// ProductStore reads the products table for the public listing. Writes go
// through the admin CRUD screens, which are outside this service.
type ProductStore struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

// NewProductStore creates a product store over a Supabase client.
func NewProductStore(client *supa.Client, table string, logger *zap.Logger) *ProductStore {
	return &ProductStore{
		client: client,
		table:  table,
		logger: logger,
	}
}

type productRow struct {
	ID          string    `json:"id"`
	CategoryID  *string   `json:"category_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListByCategories returns one page of active products plus the total count.
// An empty categoryIDs slice means no category restriction.
func (s *ProductStore) ListByCategories(ctx context.Context, categoryIDs []string, limit, offset int) ([]catalog.Product, int64, error) {
	query := s.client.From(s.table).
		Select("*", "exact", false).
		Eq("is_active", "true")

	if len(categoryIDs) > 0 {
		query = query.In("category_id", categoryIDs)
	}

	var rows []productRow
	count, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Range(offset, offset+limit-1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, 0, mapPostgrestError("list products", err)
	}

	products := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, catalog.Product(r))
	}
	return products, count, nil
}
