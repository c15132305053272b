// Package taxonomy implements the two-level category tree used by the catalog:
// building the tree from flat rows, resolving descendant closures for product
// filters, and reordering siblings via drag-and-drop.
package taxonomy

import (
	"fmt"
	"strings"
	"time"

	apperrors "servirep-backend/pkg/errors"
)

// Category is a node in the catalog taxonomy. ParentID nil means root; depth is
// capped at two levels, so a valid parent is always a root category.
type Category struct {
	ID          string    `json:"id"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"is_active"`
	ImageURL    string    `json:"image_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// SameParent reports whether two categories belong to the same sibling group:
// both root, or both children of the identical parent.
func SameParent(a, b Category) bool {
	if a.IsRoot() || b.IsRoot() {
		return a.IsRoot() && b.IsRoot()
	}
	return *a.ParentID == *b.ParentID
}

// FindByID returns the category with the given id, or false when absent.
func FindByID(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Validate checks a category against its intrinsic rules and against the rest
// of the store snapshot: non-empty name, URL-safe slug unique case-insensitively,
// no self-parenting, and a parent that exists and is itself a root (depth cap).
// The candidate itself may or may not appear in existing; it is skipped by id.
func Validate(c Category, existing []Category) error {
	if c.ID == "" {
		return apperrors.NewValidationError("category id must not be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperrors.NewValidationError("category name must not be empty")
	}
	if !ValidSlug(c.Slug) {
		return apperrors.NewValidationError(fmt.Sprintf("slug %q is not URL-safe", c.Slug))
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return apperrors.NewValidationError("category cannot be its own parent")
	}

	if !c.IsRoot() {
		parent, ok := FindByID(existing, *c.ParentID)
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("parent category %q does not exist", *c.ParentID))
		}
		if !parent.IsRoot() {
			// Depth is capped at two levels (root -> child).
			return apperrors.NewValidationError(fmt.Sprintf("parent category %q is not a root category", *c.ParentID))
		}
	}

	slug := strings.ToLower(c.Slug)
	for _, other := range existing {
		if other.ID == c.ID {
			continue
		}
		if strings.ToLower(other.Slug) == slug {
			return apperrors.NewConflictError(fmt.Sprintf("slug %q is already in use", c.Slug))
		}
	}

	return nil
}
