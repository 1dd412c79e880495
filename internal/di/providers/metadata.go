package providers

import (
	"github.com/samber/do/v2"

	"github.com/storyloop/storyloop-server/internal/config"
	"github.com/storyloop/storyloop-server/internal/logger"
	"github.com/storyloop/storyloop-server/internal/metadata/openlibrary"
)

// OpenLibraryClientHandle carries the lookup client; a nil Client means
// external lookups are disabled and scans get placeholder metadata.
type OpenLibraryClientHandle struct {
	*openlibrary.Client
}

// ProvideOpenLibraryClient provides the Open Library lookup client.
func ProvideOpenLibraryClient(i do.Injector) (*OpenLibraryClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Metadata.Enabled {
		log.Info("Metadata lookups disabled by configuration")
		return &OpenLibraryClientHandle{Client: nil}, nil
	}

	client := openlibrary.NewClient(log, openlibrary.Options{
		BaseURL:           cfg.Metadata.BaseURL,
		Timeout:           cfg.Metadata.Timeout,
		RequestsPerSecond: cfg.Metadata.RequestsPerSecond,
	})

	log.Info("Open Library client initialized",
		"base_url", cfg.Metadata.BaseURL,
		"requests_per_second", cfg.Metadata.RequestsPerSecond,
	)

	return &OpenLibraryClientHandle{Client: client}, nil
}
