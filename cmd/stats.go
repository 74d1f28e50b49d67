package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/timeblock"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how the day's recorded time is distributed",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	rec := loadDay()
	res, err := timeblock.Normalize(rec.TimeBlocks, day)
	if err != nil {
		exitOnError(err)
	}
	printStats(os.Stdout, res.Blocks)
	return nil
}

// printStats writes the total and one distribution bar per block.
func printStats(w io.Writer, blocks []model.TimeBlock) {
	shares, total := timecalc.Distribution(blocks)
	if total == 0 {
		fmt.Fprintln(w, "Total recorded: 0 min")
		return
	}
	fmt.Fprintf(w, "Total recorded: %d min (%s)\n\n", total, timecalc.FormatDuration(int64(total)*60))
	for _, s := range shares {
		desc := fmt.Sprintf("%s %s", s.Block.Time, s.Block.Activity)
		fmt.Fprintf(w, "%s: %s %.1f%%\n", desc, timecalc.Bar(s.Percent), s.Percent)
	}
}
