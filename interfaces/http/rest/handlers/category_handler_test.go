package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"servirep-backend/application/services"
	"servirep-backend/domain/taxonomy"
	"servirep-backend/infrastructure/persistence/memory"
	"servirep-backend/pkg/common"
)

type handlerCache struct {
	entries map[string]interface{}
}

func (c *handlerCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *handlerCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.entries[key] = value
	return nil
}

func (c *handlerCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *handlerCache) Clear(ctx context.Context) error {
	c.entries = make(map[string]interface{})
	return nil
}

func strPtr(s string) *string { return &s }

func newTestRouter(t *testing.T) (*chi.Mux, *memory.CategoryStore) {
	t.Helper()

	store := memory.NewCategoryStore()
	store.Seed(
		taxonomy.Category{ID: "r1", Name: "Redes", Slug: "redes", Order: 1, IsActive: true},
		taxonomy.Category{ID: "c1", ParentID: strPtr("r1"), Name: "Switches", Slug: "switches", Order: 1, IsActive: true},
		taxonomy.Category{ID: "c2", ParentID: strPtr("r1"), Name: "Routers", Slug: "routers", Order: 2, IsActive: true},
		taxonomy.Category{ID: "r2", Name: "Cámaras", Slug: "camaras", Order: 2, IsActive: true},
	)

	logger := zap.NewNop()
	taxonomySvc := services.NewTaxonomyService(store, logger)
	catalogSvc := services.NewCatalogService(store, memory.NewProductStore(),
		&handlerCache{entries: make(map[string]interface{})}, 60, logger)

	categoryHandler := NewCategoryHandler(taxonomySvc, catalogSvc, logger)
	catalogHandler := NewCatalogHandler(catalogSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.ListCategories)
		r.Post("/", categoryHandler.CreateCategory)
		r.Get("/tree", categoryHandler.GetTree)
		r.Post("/reorder", categoryHandler.Reorder)
		r.Put("/{categoryID}", categoryHandler.UpdateCategory)
		r.Delete("/{categoryID}", categoryHandler.DeleteCategory)
	})
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/tree", catalogHandler.GetTree)
		r.Get("/products", catalogHandler.ListProducts)
	})
	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (common.APIResponse, json.RawMessage) {
	t.Helper()

	var envelope struct {
		Success bool              `json:"success"`
		Data    json.RawMessage   `json:"data"`
		Error   *common.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return common.APIResponse{Success: envelope.Success, Error: envelope.Error}, envelope.Data
}

func TestCreateCategoryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]interface{}{
		"name": "Telefonía IP",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	envelope, data := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)

	var created taxonomy.Category
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, "telefonia-ip", created.Slug)
	assert.Equal(t, 3, created.Order)
}

func TestCreateCategoryEndpoint_Rejections(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing name",
			body:       map[string]interface{}{"slug": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   common.StandardErrorCodes.ValidationError,
		},
		{
			name:       "duplicate slug",
			body:       map[string]interface{}{"name": "Redes 2", "slug": "redes"},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "parent is not a root",
			body:       map[string]interface{}{"name": "Too Deep", "parent_id": "c1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION",
		},
		{
			name:       "unknown field",
			body:       map[string]interface{}{"name": "X", "bogus": true},
			wantStatus: http.StatusBadRequest,
			wantCode:   common.StandardErrorCodes.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/v1/categories", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			envelope, _ := decodeEnvelope(t, rec)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestDeleteCategoryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/categories/r1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	envelope, _ := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "HAS_CHILDREN", envelope.Error.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/categories/c1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/categories/c1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorderEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories/reorder", map[string]interface{}{
		"moved_id":  "r2",
		"target_id": "r1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, data := decodeEnvelope(t, rec)
	var group []taxonomy.Category
	require.NoError(t, json.Unmarshal(data, &group))
	require.Len(t, group, 2)
	assert.Equal(t, "r2", group[0].ID)
	assert.Equal(t, 1, group[0].Order)

	roots, err := store.ListRoots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r2", roots[0].ID)
}

func TestReorderEndpoint_CrossGroup(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/categories/reorder", map[string]interface{}{
		"moved_id":  "c1",
		"target_id": "r2",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	envelope, _ := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "REORDER_PRECONDITION", envelope.Error.Code)
}

func TestCatalogTreeEndpoint_InvalidatedByMutation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/catalog/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var tree taxonomy.Tree
	require.NoError(t, json.Unmarshal(data, &tree))
	require.Len(t, tree.Roots, 2)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/categories", map[string]interface{}{
		"name": "Energía",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/catalog/tree", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, data = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(data, &tree))
	assert.Len(t, tree.Roots, 3, "mutation drops the cached tree")
}

func TestListCategoriesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"full flat list", "", []string{"r1", "c1", "c2", "r2"}},
		{"roots only", "?parent=root", []string{"r1", "r2"}},
		{"children of a root", "?parent=r1", []string{"c1", "c2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, "/api/v1/categories/"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			_, data := decodeEnvelope(t, rec)
			var categories []taxonomy.Category
			require.NoError(t, json.Unmarshal(data, &categories))

			got := make([]string, 0, len(categories))
			for _, c := range categories {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}
