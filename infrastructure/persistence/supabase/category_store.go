// Package supabase implements the persistence ports against the hosted
// Supabase backend through PostgREST.
package supabase

import (
	"context"
	"strings"
	"time"

	"servirep-backend/domain/taxonomy"
	apperrors "servirep-backend/pkg/errors"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// CategoryStore persists categories in the hosted categories table.
type CategoryStore struct {
	client *supa.Client
	table  string
	logger *zap.Logger
}

// NewCategoryStore creates a category store over a Supabase client.
func NewCategoryStore(client *supa.Client, table string, logger *zap.Logger) *CategoryStore {
	return &CategoryStore{
		client: client,
		table:  table,
		logger: logger,
	}
}

// categoryRow mirrors the categories table. Rows are validated and converted
// into the domain type at this boundary, so the core never re-checks fields.
type categoryRow struct {
	ID          string    `json:"id"`
	ParentID    *string   `json:"parent_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"is_active"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r categoryRow) toDomain() taxonomy.Category {
	return taxonomy.Category(r)
}

func toRow(c taxonomy.Category) categoryRow {
	return categoryRow(c)
}

// List retrieves every category ordered by the order column ascending.
func (s *CategoryStore) List(ctx context.Context) ([]taxonomy.Category, error) {
	var rows []categoryRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Order("order", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapPostgrestError("list categories", err)
	}
	return rowsToDomain(rows), nil
}

// ListRoots retrieves the categories with no parent.
func (s *CategoryStore) ListRoots(ctx context.Context) ([]taxonomy.Category, error) {
	var rows []categoryRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Is("parent_id", "null").
		Order("order", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapPostgrestError("list root categories", err)
	}
	return rowsToDomain(rows), nil
}

// ListChildren retrieves the direct children of parentID.
func (s *CategoryStore) ListChildren(ctx context.Context, parentID string) ([]taxonomy.Category, error) {
	var rows []categoryRow
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("parent_id", parentID).
		Order("order", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapPostgrestError("list child categories", err)
	}
	return rowsToDomain(rows), nil
}

// Upsert writes a category row, creating or replacing it by id, and returns
// the stored representation.
func (s *CategoryStore) Upsert(ctx context.Context, category taxonomy.Category) (taxonomy.Category, error) {
	var rows []categoryRow
	_, err := s.client.From(s.table).
		Upsert(toRow(category), "id", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return taxonomy.Category{}, mapPostgrestError("upsert category", err)
	}
	if len(rows) == 0 {
		return taxonomy.Category{}, apperrors.NewNotFoundError("category")
	}
	return rows[0].toDomain(), nil
}

// Delete removes a category row by id.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	var rows []categoryRow
	_, err := s.client.From(s.table).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return mapPostgrestError("delete category", err)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFoundError("category")
	}
	return nil
}

func rowsToDomain(rows []categoryRow) []taxonomy.Category {
	categories := make([]taxonomy.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toDomain())
	}
	return categories
}

// mapPostgrestError translates PostgREST failures into the typed error
// taxonomy. The client surfaces Postgres error codes inside the message, so
// the unique-violation code is matched textually.
func mapPostgrestError(operation string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key"):
		return apperrors.NewConflictError("a category with this slug already exists").WithCause(err)
	case strings.Contains(msg, "PGRST116"):
		return apperrors.NewNotFoundError("category").WithCause(err)
	default:
		return apperrors.NewDatabaseError(operation, err)
	}
}
