package handlers

import (
	"net/http"
	"strings"

	"servirep-backend/application/services"
	"servirep-backend/pkg/common"
	apperrors "servirep-backend/pkg/errors"

	"go.uber.org/zap"
)

// CatalogHandler handles the public catalog endpoints
type CatalogHandler struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// GetTree handles GET /catalog/tree: the active-only category tree served to
// the public site.
func (h *CatalogHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.catalog.PublicTree(r.Context())
	if err != nil {
		h.respondAppError(w, err, "failed to load catalog tree")
		return
	}

	common.RespondJSON(w, http.StatusOK, tree)
}

// ListProducts handles GET /catalog/products. The categories query parameter
// is a comma-separated list of category ids; each is expanded to its
// descendant closure before matching. No parameter means no category filter.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var selected []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				selected = append(selected, trimmed)
			}
		}
	}

	params := common.ExtractPaginationParams(r)
	page, err := h.catalog.ListProducts(r.Context(), selected, params.Page, params.PageSize)
	if err != nil {
		h.respondAppError(w, err, "failed to list products")
		return
	}

	common.RespondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) respondAppError(w http.ResponseWriter, err error, logMsg string) {
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
