package config

import (
	"context"
	"fmt"

	"github.com/life-lessons/api-go/store"
	"github.com/life-lessons/api-go/store/memory"
	"github.com/life-lessons/api-go/store/mongo"
	"github.com/life-lessons/api-go/store/postgres"
)

// OpenStore connects the backend selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case DriverMongo:
		return mongo.Connect(ctx, cfg.MongoConnectionURI(), cfg.MongoDatabase)
	case DriverPostgres:
		return postgres.Open(cfg.DatabaseURL)
	case DriverMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
