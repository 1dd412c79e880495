package providers

import (
	"github.com/samber/do/v2"

	"github.com/storyloop/storyloop-server/internal/classify"
	"github.com/storyloop/storyloop-server/internal/config"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/service"
)

// ProvideEngine provides the classification engine.
func ProvideEngine(i do.Injector) (*classify.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return classify.NewEngine(classify.Options{
		BinScoreCap:     cfg.Intake.BinScoreCap,
		ReviewThreshold: cfg.Intake.ReviewThreshold,
	}), nil
}

// ProvideClassificationService provides the classification service.
func ProvideClassificationService(i do.Injector) (*service.ClassificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engine := do.MustInvoke[*classify.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewClassificationService(storeHandle.Store, engine, log), nil
}

// ProvideSkuService provides the SKU allocation service.
func ProvideSkuService(i do.Injector) (*service.SkuService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSkuService(storeHandle.Store, log, cfg.Intake.CounterRetries), nil
}

// ProvideIntakeService provides the intake workflow service.
func ProvideIntakeService(i do.Injector) (*service.IntakeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	classifier := do.MustInvoke[*service.ClassificationService](i)
	sku := do.MustInvoke[*service.SkuService](i)
	clientHandle := do.MustInvoke[*OpenLibraryClientHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A disabled lookup client stays nil; intake degrades to placeholders.
	var metadata service.MetadataClient
	if clientHandle.Client != nil {
		metadata = clientHandle.Client
	}

	return service.NewIntakeService(storeHandle.Store, classifier, sku, metadata, log, cfg.Intake.BatchCap), nil
}

// ProvideOverrideService provides the override management service.
func ProvideOverrideService(i do.Injector) (*service.OverrideService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOverrideService(storeHandle.Store, log), nil
}

// ProvideInventoryService provides the inventory read service.
func ProvideInventoryService(i do.Injector) (*service.InventoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInventoryService(storeHandle.Store, log), nil
}
