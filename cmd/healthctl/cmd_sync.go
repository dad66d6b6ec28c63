package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/janhq/health-assistant/internal/app"
	"github.com/janhq/health-assistant/internal/domain/ingest"
)

var syncCmd = &cobra.Command{
	Use:       "sync [oura|polar]",
	Short:     "Pull wearable data into the fact store",
	Long:      `Fetch the configured look-back window from Oura, or drain pending Polar AccessLink transactions, and upsert the records.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{ingest.SourceOura, ingest.SourcePolar},
	RunE:      runSync,
}

func init() {
	syncCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runSync(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	return withContainer(cmd, false, func(ctx context.Context, c *app.Container) error {
		report, err := c.Ingest.Sync(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Fprintf(out, "%s sync finished in %s\n", report.Source, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
		if report.Window != "" {
			fmt.Fprintf(out, "  window: %s\n", report.Window)
		}
		names := make([]string, 0, len(report.Tables))
		for name := range report.Tables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tc := report.Tables[name]
			fmt.Fprintf(out, "  %-22s fetched=%d saved=%d skipped=%d failed=%d\n", name, tc.Fetched, tc.Saved, tc.Skipped, tc.Failed)
		}
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  ! %s\n", e)
		}
		if report.BackupPath != "" {
			fmt.Fprintf(out, "  backup: %s\n", report.BackupPath)
		}
		return nil
	})
}
