package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/config"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

var (
	dataDirFlag string
	dateFlag    string
	debug       bool
)

// Resolved by setup before any command runs.
var (
	cfg  config.Config
	base string
	day  string
)

var rootCmd = &cobra.Command{
	Use:   "daylog",
	Short: "daylog – a daily time-block journal",
	Long: `daylog records what you did with your day: time blocks such as
"08:00 睡觉 8小时", a diary entry, a mood and a task checklist.
Each day is stored as <data>/<date>.json; every saved time block is also
collected in <data>/timeblocks.csv.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory (overrides config and DAYLOG_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "Day to work on (YYYY-MM-DD); defaults to today")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(diaryCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
}

// setup configures logging, loads the config and resolves the data
// directory and the working day.
func setup(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c

	base = cfg.DataDir
	if dataDirFlag != "" {
		base = dataDirFlag
	}

	day = time.Now().Format(timecalc.DateLayout)
	if dateFlag != "" {
		if _, err := timecalc.ParseDate(dateFlag); err != nil {
			return err
		}
		day = dateFlag
	}

	log.Debug().Str("data_dir", base).Str("date", day).Msg("resolved working day")
	return nil
}
