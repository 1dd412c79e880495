package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/storyloop/storyloop-server/internal/config"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Store.BasePath, "db")
	db, err := store.New(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	// First boot seeds the default keyword, topic, and override tables so
	// classification works before an operator curates anything.
	if err := db.SeedDefaultRules(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &StoreHandle{Store: db}, nil
}
