package services

import (
	"context"
	"sync"
	"time"

	"servirep-backend/application/ports"
	"servirep-backend/domain/taxonomy"
	apperrors "servirep-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaxonomyService orchestrates category CRUD and drag-reordering on top of the
// injected CategoryStore. It owns no rendering state: every operation reads the
// current snapshot from the store, applies the pure domain functions, and
// writes back.
type TaxonomyService struct {
	store  ports.CategoryStore
	logger *zap.Logger

	// Guards the reorder-in-flight flag. Overlapping reorders are not
	// serialized against the store; the second caller is rejected while a
	// batch is still resolving so the UI can disable its controls.
	mu              sync.Mutex
	reorderInFlight bool
}

// NewTaxonomyService creates a new taxonomy service
func NewTaxonomyService(store ports.CategoryStore, logger *zap.Logger) *TaxonomyService {
	return &TaxonomyService{
		store:  store,
		logger: logger,
	}
}

// CreateCategoryInput carries the fields accepted when creating a category.
// Slug is derived from Name when blank.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	ParentID    *string
	Description string
	ImageURL    string
	Icon        string
	IsActive    *bool
}

// UpdateCategoryInput carries the optional fields of a category update; nil
// means "leave unchanged".
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	ParentID    *string
	SetParent   bool // distinguishes "reparent to nil (root)" from "no change"
	Description *string
	ImageURL    *string
	Icon        *string
	IsActive    *bool
}

// ListCategories returns the full flat category list from the store.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]taxonomy.Category, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

// ListRoots returns the root categories in display order.
func (s *TaxonomyService) ListRoots(ctx context.Context) ([]taxonomy.Category, error) {
	categories, err := s.store.ListRoots(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list root categories")
	}
	return categories, nil
}

// ListChildren returns the direct children of parentID in display order.
func (s *TaxonomyService) ListChildren(ctx context.Context, parentID string) ([]taxonomy.Category, error) {
	categories, err := s.store.ListChildren(ctx, parentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list child categories")
	}
	return categories, nil
}

// GetTree returns the rooted forest view of the current category list.
func (s *TaxonomyService) GetTree(ctx context.Context) (taxonomy.Tree, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return taxonomy.Tree{}, apperrors.Wrap(err, "failed to list categories")
	}
	return taxonomy.BuildTree(categories), nil
}

// CreateCategory validates and persists a new category. The id is generated
// here, at creation time; the new category is appended at the end of its
// sibling group.
func (s *TaxonomyService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*taxonomy.Category, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}

	slug := input.Slug
	if slug == "" {
		slug = taxonomy.Slugify(input.Name)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC()
	category := taxonomy.Category{
		ID:          uuid.New().String(),
		ParentID:    normalizeParent(input.ParentID),
		Name:        input.Name,
		Slug:        slug,
		Order:       nextOrder(categories, normalizeParent(input.ParentID)),
		IsActive:    isActive,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Icon:        input.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := taxonomy.Validate(category, categories); err != nil {
		return nil, err
	}

	stored, err := s.store.Upsert(ctx, category)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create category")
	}

	s.logger.Info("category created",
		zap.String("categoryID", stored.ID),
		zap.String("slug", stored.Slug),
	)
	return &stored, nil
}

// UpdateCategory applies a partial update to an existing category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (*taxonomy.Category, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}

	category, ok := taxonomy.FindByID(categories, id)
	if !ok {
		return nil, apperrors.NewNotFoundError("category")
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil {
		category.Slug = *input.Slug
	}
	if input.SetParent {
		newParent := normalizeParent(input.ParentID)
		if newParent != nil && countChildren(categories, id) > 0 {
			// Reparenting a category that has children would push them past
			// the two-level depth cap.
			return nil, apperrors.NewValidationError("cannot move a category with children under another category")
		}
		if !sameParentRef(category.ParentID, newParent) {
			category.ParentID = newParent
			category.Order = nextOrder(categories, newParent)
		}
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = *input.ImageURL
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	category.UpdatedAt = time.Now().UTC()

	if err := taxonomy.Validate(category, categories); err != nil {
		return nil, err
	}

	stored, err := s.store.Upsert(ctx, category)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update category")
	}

	s.logger.Info("category updated", zap.String("categoryID", stored.ID))
	return &stored, nil
}

// DeleteCategory removes a childless category. Deleting a category that still
// has children is refused entirely; the store is left untouched.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	categories, err := s.store.List(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to list categories")
	}

	if _, ok := taxonomy.FindByID(categories, id); !ok {
		return apperrors.NewNotFoundError("category")
	}

	if n := countChildren(categories, id); n > 0 {
		return apperrors.NewHasChildrenError(id, n)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete category")
	}

	s.logger.Info("category deleted", zap.String("categoryID", id))
	return nil
}

// Reorder moves movedID to targetID's position within their shared sibling
// group and persists the renormalized order values, one write per row. The
// writes form one logical batch: if any row fails, the store snapshot is
// re-fetched and a partial-failure error reports which rows landed so the
// caller can discard its optimistic state.
func (s *TaxonomyService) Reorder(ctx context.Context, movedID, targetID string) ([]taxonomy.Category, error) {
	s.mu.Lock()
	if s.reorderInFlight {
		s.mu.Unlock()
		return nil, apperrors.NewConflictError("a reorder operation is already in progress")
	}
	s.reorderInFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.reorderInFlight = false
		s.mu.Unlock()
	}()

	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list categories")
	}

	moved, ok := taxonomy.FindByID(categories, movedID)
	if !ok {
		return nil, apperrors.NewNotFoundError("category")
	}
	target, ok := taxonomy.FindByID(categories, targetID)
	if !ok {
		return nil, apperrors.NewNotFoundError("category")
	}
	if !taxonomy.SameParent(moved, target) {
		return nil, apperrors.NewReorderPreconditionError("cross-level move unsupported: categories belong to different sibling groups")
	}

	group := taxonomy.SiblingGroup(categories, moved.ParentID)
	reordered, err := taxonomy.Reorder(group, movedID, targetID)
	if err != nil {
		return nil, err
	}

	var succeeded, failed []string
	for _, c := range reordered {
		if _, err := s.store.Upsert(ctx, c); err != nil {
			failed = append(failed, c.ID)
			s.logger.Error("order write failed",
				zap.String("categoryID", c.ID),
				zap.Error(err),
			)
		} else {
			succeeded = append(succeeded, c.ID)
		}
	}

	if len(failed) > 0 {
		// Discard optimistic state: the authoritative list is whatever the
		// store now holds.
		if _, err := s.store.List(ctx); err != nil {
			s.logger.Error("refetch after partial reorder failure failed", zap.Error(err))
		}
		return nil, apperrors.NewPartialFailureError("order may be out of sync, refreshed").
			WithDetails(map[string]interface{}{
				"succeeded": succeeded,
				"failed":    failed,
			})
	}

	s.logger.Info("sibling group reordered",
		zap.String("movedID", movedID),
		zap.String("targetID", targetID),
		zap.Int("groupSize", len(reordered)),
	)
	return reordered, nil
}

// ReorderInFlight reports whether a reorder batch is still resolving.
func (s *TaxonomyService) ReorderInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorderInFlight
}

// normalizeParent maps an empty-string parent id to nil so "root" has a single
// representation.
func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	return parentID
}

func sameParentRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func countChildren(categories []taxonomy.Category, id string) int {
	n := 0
	for _, c := range categories {
		if !c.IsRoot() && *c.ParentID == id {
			n++
		}
	}
	return n
}

// nextOrder returns the order value for a category appended to the end of the
// sibling group of parentID.
func nextOrder(categories []taxonomy.Category, parentID *string) int {
	max := 0
	for _, c := range taxonomy.SiblingGroup(categories, parentID) {
		if c.Order > max {
			max = c.Order
		}
	}
	return max + 1
}
