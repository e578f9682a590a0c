package store

import (
	"fmt"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/config"
)

// NewServiceFromConfig opens the backend selected by cfg.StoreMode and
// returns it with a printable mode name.
func NewServiceFromConfig(cfg config.Config, newPlayer NewPlayerFunc) (Service, string, error) {
	var (
		svc Service
		err error
	)
	switch cfg.StoreMode {
	case config.StoreMemory:
		return NewMemoryService(newPlayer), "memory", nil
	case config.StoreSQLite:
		svc, err = NewSQLiteService(cfg.SQLitePath, newPlayer)
	case config.StorePostgres:
		svc, err = NewPostgresService(cfg.DatabaseDSN, newPlayer)
	default:
		return nil, "", fmt.Errorf("unknown store mode %q", cfg.StoreMode)
	}
	if err != nil {
		return nil, "", err
	}

	if cfg.CacheSize <= 0 {
		return svc, cfg.StoreMode, nil
	}
	cached, err := NewCachedService(svc, cfg.CacheSize)
	if err != nil {
		_ = svc.Close()
		return nil, "", err
	}
	return cached, cfg.StoreMode + "+lru", nil
}
