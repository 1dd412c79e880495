// Package di provides dependency injection configuration for the StoryLoop server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/config"
	"github.com/storyloop/storyloop-server/internal/di/providers"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Classification
	do.Provide(injector, providers.ProvideEngine)

	// Business services
	do.Provide(injector, providers.ProvideClassificationService)
	do.Provide(injector, providers.ProvideSkuService)
	do.Provide(injector, providers.ProvideIntakeService)
	do.Provide(injector, providers.ProvideOverrideService)
	do.Provide(injector, providers.ProvideInventoryService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.OpenLibraryClientHandle](injector)
	_ = do.MustInvoke[*classify.Engine](injector)

	// Business services
	_ = do.MustInvoke[*service.ClassificationService](injector)
	_ = do.MustInvoke[*service.SkuService](injector)
	_ = do.MustInvoke[*service.IntakeService](injector)
	_ = do.MustInvoke[*service.OverrideService](injector)
	_ = do.MustInvoke[*service.InventoryService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
