package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/config"
	"github.com/Tiliavir/daylog/internal/msgraph"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as time blocks",
	Long: `Import Outlook calendar events as time blocks.

Each busy, non-private event becomes a line "HH:MM <subject> <N>min" on the
day it starts. Events already recorded at the same time with the same
activity are skipped. Without --from/--to the working day (--date) is synced.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to the working day")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned imports without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (overrides config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the inclusive date range to import.
func syncRange(workingDay, fromFlag, toFlag string) (time.Time, time.Time, error) {
	d, err := timecalc.ParseDate(workingDay)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if fromFlag == "" && toFlag == "" {
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil
	}
	if fromFlag == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
	}

	from, err := timecalc.ParseDate(fromFlag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	to := d
	if toFlag != "" {
		if to, err = timecalc.ParseDate(toFlag); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", toFlag, fromFlag)
	}
	return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(day, outlookSyncFrom, outlookSyncTo)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	timezone := cfg.Outlook.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format(timecalc.DateLayout), to.Format(timecalc.DateLayout), dryTag)
	fmt.Println()

	home, err := config.HomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	auth := msgraph.Auth{
		Home:     home,
		TenantID: cfg.Outlook.TenantID,
		ClientID: cfg.Outlook.ClientID,
	}

	ctx := context.Background()
	tok, err := auth.Token(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, auth, tok)
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	result, err := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Base:     base,
		DryRun:   outlookSyncDryRun,
		Timezone: timezone,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
