package storage

import (
	"ecotracker/internal/providers"
	"ecotracker/internal/storage/interfaces"
	"ecotracker/internal/structures"
)

// NewStore builds the configured store. A corrupt file is logged and the
// store starts empty, matching the tracker's read-failure policy.
func NewStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.StoreInterface {
	if conf.Persistence.Driver == "memory" {
		logger.Infof(providers.TypeStorage, "Using in-memory store, records will not survive restart")
		return NewMemoryStore()
	}

	store := NewFileStore(conf.Persistence.FilePath, compressor, logger)
	if err := store.Load(); err != nil {
		logger.Errorf(providers.TypeStorage, "Restore error: %s", err)
	}
	return store
}
