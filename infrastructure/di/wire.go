//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"servirep-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideSupabaseClient,
	ProvideCategoryStore,
	ProvideProductStore,
	ProvideCache,
	ProvideTaxonomyService,
	ProvideCatalogService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
