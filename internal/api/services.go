package api

import (
	"github.com/storyloop/storyloop-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Intake         *service.IntakeService
	Classification *service.ClassificationService
	Override       *service.OverrideService
	Inventory      *service.InventoryService
	Sku            *service.SkuService
}
