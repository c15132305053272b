package di

import (
	"servirep-backend/application/ports"
	"servirep-backend/application/services"
	"servirep-backend/infrastructure/config"
	supastore "servirep-backend/infrastructure/persistence/supabase"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Supabase        *supa.Client
	CategoryStore   ports.CategoryStore
	ProductStore    ports.ProductStore
	Cache           ports.Cache
	TaxonomyService *services.TaxonomyService
	CatalogService  *services.CatalogService
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideSupabaseClient creates the shared Supabase client
func ProvideSupabaseClient(cfg *config.Config) (*supa.Client, error) {
	return supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
}

// ProvideCategoryStore creates the category store over the hosted backend
func ProvideCategoryStore(client *supa.Client, cfg *config.Config, logger *zap.Logger) ports.CategoryStore {
	return supastore.NewCategoryStore(client, cfg.CategoriesTable, logger)
}

// ProvideProductStore creates the product store over the hosted backend
func ProvideProductStore(client *supa.Client, cfg *config.Config, logger *zap.Logger) ports.ProductStore {
	return supastore.NewProductStore(client, cfg.ProductsTable, logger)
}

// ProvideCache creates the in-memory cache
func ProvideCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideTaxonomyService creates the taxonomy service
func ProvideTaxonomyService(store ports.CategoryStore, logger *zap.Logger) *services.TaxonomyService {
	return services.NewTaxonomyService(store, logger)
}

// ProvideCatalogService creates the catalog service
func ProvideCatalogService(
	categories ports.CategoryStore,
	products ports.ProductStore,
	cache ports.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) *services.CatalogService {
	return services.NewCatalogService(categories, products, cache, cfg.TreeCacheTTL, logger)
}
