package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timeblock"
)

var (
	exportFormat string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the day's record",
	Long: `Export the day's record.

  md    writes <data>/<date>.md (or stdout with --stdout)
  json  prints the day record
  csv   prints the day's time blocks in the aggregate store's format`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, json, csv")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print the markdown export instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	rec := loadDay()

	switch exportFormat {
	case "md":
		md := renderMarkdown(rec)
		if exportStdout {
			fmt.Print(md)
			return nil
		}
		path := filepath.Join(base, rec.Date+".md")
		if err := os.MkdirAll(base, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "storage error writing %s: %v\n", path, err)
			os.Exit(2)
		}
		fmt.Printf("Exported %s\n", path)
	case "json":
		data, err := json.MarshalIndent(rec, "", "    ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "csv":
		res, err := timeblock.Normalize(rec.TimeBlocks, rec.Date)
		if err != nil {
			exitOnError(err)
		}
		if err := storage.WriteBlocks(os.Stdout, res.Blocks); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	default:
		return fmt.Errorf("unknown format %q (want md, json or csv)", exportFormat)
	}
	return nil
}

// renderMarkdown lays out a day record as a markdown document.
func renderMarkdown(rec model.DayRecord) string {
	tasks := make([]string, 0, len(rec.Tasks))
	for _, t := range rec.Tasks {
		tasks = append(tasks, taskLine(t))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s 时间记录\n\n", rec.Date)
	fmt.Fprintf(&sb, "## 时间块\n%s\n\n", rec.TimeBlocks)
	fmt.Fprintf(&sb, "## 今日总结\n%s\n\n", rec.Diary)
	fmt.Fprintf(&sb, "## 今日待办\n%s\n\n", strings.Join(tasks, "\n"))
	fmt.Fprintf(&sb, "## 心情\n%s\n", rec.Mood)
	return sb.String()
}
