package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/journal"
	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timeblock"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Record and inspect the day's time blocks",
}

var blocksSetCmd = &cobra.Command{
	Use:   "set [line]...",
	Short: "Replace the day's time blocks (one argument per line, or stdin)",
	RunE:  runBlocksSet,
}

var blocksAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Append one time block, e.g. `08:00 睡觉 8小时` or `下午读了2小时书`",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBlocksAdd,
}

var blocksParseCmd = &cobra.Command{
	Use:   "parse [line]...",
	Short: "Show how lines would be normalized without saving",
	RunE:  runBlocksParse,
}

var blocksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the day's time blocks",
	Args:  cobra.NoArgs,
	RunE:  runBlocksList,
}

func init() {
	blocksCmd.AddCommand(blocksSetCmd)
	blocksCmd.AddCommand(blocksAddCmd)
	blocksCmd.AddCommand(blocksParseCmd)
	blocksCmd.AddCommand(blocksListCmd)
}

// blockText joins args as lines, or reads r when there are none.
func blockText(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading time blocks: %w", err)
	}
	return string(data), nil
}

func runBlocksSet(cmd *cobra.Command, args []string) error {
	text, err := blockText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	rec := loadDay()
	rec.TimeBlocks = strings.TrimRight(text, "\n")
	saved := commitDay(rec)
	fmt.Printf("Saved %d time block(s) for %s.\n", countBlocks(saved), day)
	return nil
}

func runBlocksAdd(cmd *cobra.Command, args []string) error {
	rec := loadDay()
	rec.TimeBlocks = journal.AppendLine(rec.TimeBlocks, strings.Join(args, " "))
	saved := commitDay(rec)
	lines := strings.Split(saved.TimeBlocks, "\n")
	fmt.Printf("Added: %s\n", lines[len(lines)-1])
	return nil
}

func runBlocksParse(cmd *cobra.Command, args []string) error {
	text, err := blockText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := timeblock.Normalize(text, day)
	if err != nil {
		exitOnError(err)
	}
	for _, b := range res.Blocks {
		fmt.Println(timeblock.Canonical(b))
	}
	return nil
}

func runBlocksList(cmd *cobra.Command, args []string) error {
	rec := loadDay()
	res, err := timeblock.Normalize(rec.TimeBlocks, day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Println(rec.TimeBlocks)
		return nil
	}
	printBlocks(os.Stdout, day, res.Blocks)
	return nil
}

// printBlocks writes one aligned row per block.
func printBlocks(w io.Writer, date string, blocks []model.TimeBlock) {
	if len(blocks) == 0 {
		fmt.Fprintf(w, "No time blocks for %s.\n", date)
		return
	}
	fmt.Fprintln(w, date)
	for _, b := range blocks {
		fmt.Fprintf(w, "  %s  %-8s  %s\n", b.Time, b.Duration, b.Activity)
	}
}

// loadDay loads the working day's record, exiting on storage failure.
func loadDay() model.DayRecord {
	rec, err := storage.LoadDay(base, day)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return rec
}

// commitDay saves rec through journal.Commit. Invalid time blocks exit with
// status 1 and nothing written; storage failures exit with status 2.
func commitDay(rec model.DayRecord) model.DayRecord {
	saved, blocks, err := journal.Commit(base, rec)
	if err != nil {
		exitOnError(err)
	}
	if saved.TimeBlocks != rec.TimeBlocks {
		fmt.Println("Time blocks were normalized to:")
		fmt.Println(saved.TimeBlocks)
	}
	log.Debug().Str("date", saved.Date).Int("blocks", len(blocks)).Msg("day saved")
	return saved
}

func exitOnError(err error) {
	var verr *timeblock.ValidationError
	if errors.As(err, &verr) {
		printValidationError(os.Stderr, verr)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

// printValidationError explains which line was rejected and what is accepted.
func printValidationError(w io.Writer, verr *timeblock.ValidationError) {
	fmt.Fprintf(w, "Line %d is not a valid time block: %q\n", verr.Line, verr.Raw)
	fmt.Fprintf(w, "Nothing was saved; %s.\n", timeblock.Formats)
}

func countBlocks(rec model.DayRecord) int {
	n := 0
	for _, line := range strings.Split(rec.TimeBlocks, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
