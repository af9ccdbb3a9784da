package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront.GO/cron"
	"storefront.GO/cron/jobs"
	"storefront.GO/service/catalog"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start [args...]",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := loadRuntime(ctx, catalog.Options{})
		if err != nil {
			return err
		}
		defer rt.Logger.Sync() //nolint:errcheck
		jobs.RegisterBuiltins(rt)

		if jobName != "" {
			name := strings.ToLower(jobName)
			j, ok := cron.Jobs()[name]
			if !ok {
				return fmt.Errorf("unknown job: %s", jobName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Running cron job: %s\n", name)
			return j.Run(ctx, args...)
		}

		printBanner(cmd.OutOrStdout())
		c, err := cron.StartCron(ctx, rt.Logger, nil)
		if err != nil {
			return err
		}
		rt.Logger.Info("cron scheduler started, press Ctrl+C to exit")
		<-ctx.Done()
		<-c.Stop().Done()
		rt.Logger.Info("cron scheduler stopped", zap.Error(ctx.Err()))
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}

var cronListCmd = &cobra.Command{
	Use:   "cron:list",
	Short: "List registered cron jobs and their schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd.Context(), catalog.Options{})
		if err != nil {
			return err
		}
		jobs.RegisterBuiltins(rt)
		all := cron.Jobs()
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, all[name].Schedule)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cronListCmd)
}
