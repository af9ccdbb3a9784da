package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"storefront.GO/config"
	"storefront.GO/core/registry"
	"storefront.GO/service/session"
	"storefront.GO/service/snapshot"
)

// SourceFactory builds a snapshot fetcher from configuration.
type SourceFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (session.Fetcher, error)

var mu sync.Mutex

func init() {
	RegisterSource("db", dbSource)
	RegisterSource("search", searchSource)
}

// RegisterSource adds a named snapshot source. Call from init() in custom
// packages. Panics if the registry is locked or name is taken.
func RegisterSource(name string, f SourceFactory) {
	mu.Lock()
	defer mu.Unlock()
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistrySource) {
		panic("catalog/sources: locked (register only during init before NewRuntime)")
	}
	sources := getSources()
	if _, ok := sources[name]; ok {
		panic("catalog/sources: duplicate source " + name)
	}
	sources[name] = f
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistrySource, sources)
}

func getSources() map[string]SourceFactory {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistrySource); ok && v != nil {
		return v.(map[string]SourceFactory)
	}
	return make(map[string]SourceFactory)
}

// Sources returns the registered source names, sorted, and locks the registry.
func Sources() []string {
	names := make([]string, 0)
	for name := range lookupSources() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupSources() map[string]SourceFactory {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]SourceFactory)
	for k, v := range getSources() {
		out[k] = v
	}
	if !registry.GlobalRegistry.IsLocked(registry.KeyRegistrySource) {
		registry.GlobalRegistry.Lock(registry.KeyRegistrySource)
	}
	return out
}

func dbSource(_ context.Context, cfg *config.Config, log *zap.Logger) (session.Fetcher, error) {
	db, err := config.NewDB()
	if err != nil {
		return nil, fmt.Errorf("catalog: database: %w", err)
	}
	return snapshot.NewDBSource(db, cfg.InventorySource, log)
}

func searchSource(_ context.Context, cfg *config.Config, log *zap.Logger) (session.Fetcher, error) {
	client, err := config.NewSearchClient()
	if err != nil {
		return nil, fmt.Errorf("catalog: search client: %w", err)
	}
	return snapshot.NewSearchSource(client, cfg.SearchIndexPrefix, log), nil
}
