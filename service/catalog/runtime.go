// Package catalog wires configuration into a ready-to-use catalog runtime:
// the taxonomy, the facet engine, the cached snapshot source and the shared
// loader that sessions fetch through.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront.GO/config"
	"storefront.GO/core/cache"
	"storefront.GO/core/collate"
	"storefront.GO/service/facet"
	"storefront.GO/service/session"
	"storefront.GO/service/snapshot"
	"storefront.GO/service/taxonomy"
)

// Runtime holds the process-wide catalog components. Sessions are cheap and
// created per browsing context with NewSession.
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	Classifier *taxonomy.Classifier
	Engine     *facet.Engine
	Snapshots  *snapshot.CachedSource
	Loader     *session.Loader
}

// Options overrides parts of the runtime; zero values use configuration.
type Options struct {
	Redis *redis.Client
	Cache *cache.Cache
	// Now fixes the pricing clock, for previewing prices at another time.
	Now func() time.Time
}

// NewRuntime builds a Runtime from cfg. The snapshot source is looked up by
// cfg.Source among registered sources.
func NewRuntime(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	preset, err := taxonomy.Preset(cfg.Taxonomy)
	if err != nil {
		return nil, err
	}
	classifier := taxonomy.New(preset)
	engine := facet.NewEngine(facet.Deps{
		Classifier: classifier,
		Collator:   collate.New(cfg.Locale),
		Now:        opts.Now,
	})

	factory, ok := lookupSources()[cfg.Source]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown snapshot source %q (registered: %v)", cfg.Source, Sources())
	}
	fetcher, err := factory(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	cached := snapshot.NewCachedSource(fetcher, opts.Cache, opts.Redis, cfg.SnapshotTTL, log)
	log.Info("catalog runtime ready",
		zap.String("source", cfg.Source),
		zap.String("taxonomy", classifier.Name()),
		zap.String("locale", cfg.Locale),
		zap.Bool("redis", opts.Redis != nil))

	return &Runtime{
		Config:     cfg,
		Logger:     log,
		Classifier: classifier,
		Engine:     engine,
		Snapshots:  cached,
		Loader:     session.NewLoader(cached, log),
	}, nil
}

// NewSession starts an empty session sharing the runtime's loader.
func (r *Runtime) NewSession() *session.Session {
	return session.New(session.Options{
		Engine: r.Engine,
		Loader: r.Loader,
		Logger: r.Logger,
	})
}

// Invalidate drops cached snapshots and detaches in-flight loads so the
// next session load fetches again. Without scopes every snapshot is dropped.
func (r *Runtime) Invalidate(ctx context.Context, scopes ...string) error {
	if len(scopes) == 0 {
		return r.Snapshots.Invalidate(ctx)
	}
	for _, scope := range scopes {
		r.Loader.Forget(scope)
		if err := r.Snapshots.InvalidateScope(ctx, scope); err != nil {
			return err
		}
	}
	return nil
}
