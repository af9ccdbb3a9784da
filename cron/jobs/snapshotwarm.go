// Package jobs holds the built-in cron jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront.GO/cron"
	"storefront.GO/service/catalog"
	"storefront.GO/service/session"
)

// SnapshotWarmJob is the registered name of the snapshot warm job.
const SnapshotWarmJob = "snapshotwarm"

const warmParallelism = 4

// Invalidator drops every cached snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type invalidateFunc func(ctx context.Context) error

func (f invalidateFunc) Invalidate(ctx context.Context) error { return f(ctx) }

// WarmSnapshots invalidates the snapshot cache and refetches each scope so
// the next session load is served from cache. It returns the number of
// products loaded per scope.
func WarmSnapshots(ctx context.Context, cache Invalidator, fetcher session.Fetcher, scopes []string, log *zap.Logger) (map[string]int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn("snapshot invalidate failed", zap.Error(err))
	}

	counts := make([]int, len(scopes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmParallelism)
	for i, scope := range scopes {
		g.Go(func() error {
			products, err := fetcher.FetchSnapshot(gctx, scope)
			if err != nil {
				return fmt.Errorf("warm scope %q: %w", scope, err)
			}
			counts[i] = len(products)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(scopes))
	for i, scope := range scopes {
		out[scope] = counts[i]
	}
	log.Info("snapshots warmed", zap.Int("scopes", len(scopes)), zap.Duration("took", time.Since(start)))
	return out, nil
}

// NewSnapshotWarm returns a cron body warming rt's configured scopes, or the
// scopes passed as arguments when run by hand. Only the warmed scopes are
// invalidated.
func NewSnapshotWarm(rt *catalog.Runtime) cron.RunFunc {
	return func(ctx context.Context, args ...string) error {
		scopes := rt.Config.WarmScopes
		if len(args) > 0 {
			scopes = args
		}
		drop := invalidateFunc(func(ctx context.Context) error {
			return rt.Invalidate(ctx, scopes...)
		})
		_, err := WarmSnapshots(ctx, drop, rt.Snapshots, scopes, rt.Logger)
		return err
	}
}

// RegisterBuiltins registers the built-in jobs against rt. Call before
// cron.Jobs or cron.StartCron.
func RegisterBuiltins(rt *catalog.Runtime) {
	cron.Register(SnapshotWarmJob, rt.Config.WarmSchedule, NewSnapshotWarm(rt))
}
