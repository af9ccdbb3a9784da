package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront.GO/config"
	"storefront.GO/service/catalog"
	"storefront.GO/service/snapshot"
)

var (
	flagSource   string
	flagTaxonomy string
	flagLocale   string
)

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Storefront catalog: faceted browsing, dynamic pricing, import and snapshot cache",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		printBanner(cmd.OutOrStdout())
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Snapshot source (overrides CATALOG_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&flagTaxonomy, "taxonomy", "", "Taxonomy preset: apparel or collections (overrides CATALOG_TAXONOMY)")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "Collation locale (overrides CATALOG_LOCALE)")
}

// Execute applies registered commands and runs the root command until it
// returns or the process is interrupted.
func Execute() {
	Apply()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// ASCII banner (random font each run)
var bannerFonts = []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles", "cosmic"}

func printBanner(w io.Writer) {
	fig := figure.NewFigure("Storefront", bannerFonts[rand.Intn(len(bannerFonts))], true)
	fmt.Fprintln(w, fig.String())
}

// appConfig returns a copy of the app config with command line overrides.
func appConfig() *config.Config {
	cfg := *config.LoadAppConfig()
	if flagSource != "" {
		cfg.Source = flagSource
	}
	if flagTaxonomy != "" {
		cfg.Taxonomy = flagTaxonomy
	}
	if flagLocale != "" {
		cfg.Locale = flagLocale
	}
	return &cfg
}

// sharedCache connects Redis from the environment. Nil when unset or down.
func sharedCache(log *zap.Logger) {
	config.InitRedis()
	if config.RedisClient == nil {
		return
	}
	if !config.PingRedis() {
		log.Warn("redis unreachable, shared snapshot cache disabled")
	}
}

func loadRuntime(ctx context.Context, opts catalog.Options) (*catalog.Runtime, error) {
	log, err := config.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	sharedCache(log)
	if opts.Redis == nil {
		opts.Redis = config.RedisClient
	}
	return catalog.NewRuntime(ctx, appConfig(), log, opts)
}

// invalidateShared drops snapshots other processes cached in Redis after a
// catalog write.
func invalidateShared(ctx context.Context, log *zap.Logger) {
	sharedCache(log)
	if config.RedisClient == nil {
		return
	}
	cached := snapshot.NewCachedSource(nil, nil, config.RedisClient, 0, log)
	if err := cached.Invalidate(ctx); err != nil {
		log.Warn("snapshot invalidation failed", zap.Error(err))
		return
	}
	log.Info("snapshot cache invalidated")
}
