package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"storefront.GO/cron/jobs"
	"storefront.GO/service/catalog"
)

var snapshotWarmCmd = &cobra.Command{
	Use:   "snapshot:warm [scope...]",
	Short: "Invalidate cached catalog snapshots and reload the given scopes (default SNAPSHOT_WARM_SCOPES)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := loadRuntime(ctx, catalog.Options{})
		if err != nil {
			return err
		}
		defer rt.Logger.Sync() //nolint:errcheck

		scopes := rt.Config.WarmScopes
		if len(args) > 0 {
			scopes = args
		}
		counts, err := jobs.WarmSnapshots(ctx, rt.Snapshots, rt.Snapshots, scopes, rt.Logger)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(counts))
		for s := range counts {
			names = append(names, s)
		}
		sort.Strings(names)
		for _, s := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %d products\n", s, counts[s])
		}
		return nil
	},
}

var snapshotClearCmd = &cobra.Command{
	Use:   "snapshot:clear [scope...]",
	Short: "Drop cached catalog snapshots (all scopes unless given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context(), catalog.Options{})
		if err != nil {
			return err
		}
		defer rt.Logger.Sync() //nolint:errcheck
		if err := rt.Invalidate(cmd.Context(), args...); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Snapshot cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotWarmCmd, snapshotClearCmd)
}
