package handlers

import (
	"net/http"

	"servirep-backend/application/services"
	"servirep-backend/pkg/common"
	apperrors "servirep-backend/pkg/errors"
	"servirep-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler handles the admin category endpoints
type CategoryHandler struct {
	taxonomy *services.TaxonomyService
	catalog  *services.CatalogService
	logger   *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(taxonomy *services.TaxonomyService, catalog *services.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		taxonomy: taxonomy,
		catalog:  catalog,
		logger:   logger,
	}
}

const maxBodyBytes = 1 << 20

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,max=140"`
	ParentID    *string `json:"parent_id,omitempty"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=500"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Icon        string  `json:"icon,omitempty" validate:"omitempty,max=80"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateCategoryRequest represents the request body for updating a category.
// ParentID is only applied when the field is present in the JSON body.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=140"`
	ParentID    *string `json:"parent_id,omitempty"`
	SetParent   bool    `json:"set_parent,omitempty"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=80"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ReorderRequest represents the request body for a drag-reorder
type ReorderRequest struct {
	MovedID  string `json:"moved_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	category, err := h.taxonomy.CreateCategory(r.Context(), services.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		ParentID:    req.ParentID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondAppError(w, err, "failed to create category")
		return
	}

	h.catalog.InvalidateTree(r.Context())
	common.RespondJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/{categoryID}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	if categoryID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Category ID is required")
		return
	}

	var req UpdateCategoryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	category, err := h.taxonomy.UpdateCategory(r.Context(), categoryID, services.UpdateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		ParentID:    req.ParentID,
		SetParent:   req.SetParent || req.ParentID != nil,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondAppError(w, err, "failed to update category")
		return
	}

	h.catalog.InvalidateTree(r.Context())
	common.RespondJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{categoryID}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")
	if categoryID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Category ID is required")
		return
	}

	if err := h.taxonomy.DeleteCategory(r.Context(), categoryID); err != nil {
		h.respondAppError(w, err, "failed to delete category")
		return
	}

	h.catalog.InvalidateTree(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /categories. Without a parent filter the full
// flat list is returned; ?parent=root returns root categories only and
// ?parent=<id> returns that category's direct children.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	var err error
	var categories interface{}

	switch parent := r.URL.Query().Get("parent"); parent {
	case "":
		categories, err = h.taxonomy.ListCategories(r.Context())
	case "root":
		categories, err = h.taxonomy.ListRoots(r.Context())
	default:
		categories, err = h.taxonomy.ListChildren(r.Context(), parent)
	}
	if err != nil {
		h.respondAppError(w, err, "failed to list categories")
		return
	}

	common.RespondJSON(w, http.StatusOK, categories)
}

// GetTree handles GET /categories/tree
func (h *CategoryHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.taxonomy.GetTree(r.Context())
	if err != nil {
		h.respondAppError(w, err, "failed to build category tree")
		return
	}

	common.RespondJSON(w, http.StatusOK, tree)
}

// Reorder handles POST /categories/reorder
func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	group, err := h.taxonomy.Reorder(r.Context(), req.MovedID, req.TargetID)
	if err != nil {
		h.respondAppError(w, err, "failed to reorder categories")
		return
	}

	h.catalog.InvalidateTree(r.Context())
	common.RespondJSON(w, http.StatusOK, group)
}

// respondAppError maps a typed application error onto the response envelope.
func (h *CategoryHandler) respondAppError(w http.ResponseWriter, err error, logMsg string) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error(logMsg, zap.Error(err))
		}
		common.RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Type), appErr.Message, appErr.Details)
		return
	}

	h.logger.Error(logMsg, zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, logMsg)
}
