package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the week's recorded time aggregated by activity",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// activityTotal is one row of the weekly report.
type activityTotal struct {
	Activity string `json:"activity"`
	Minutes  int    `json:"duration_minutes"`
}

type weekReport struct {
	Week         string          `json:"week"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Activities   []activityTotal `json:"activities"`
	TotalMinutes int             `json:"total_minutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	t, err := timecalc.ParseDate(day)
	if err != nil {
		return err
	}

	blocks, err := storage.LoadBlocks(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rep := buildWeekReport(t, blocks)
	switch reportFormat {
	case "csv":
		if err := writeWeekCSV(os.Stdout, rep); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printWeekReport(os.Stdout, rep)
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", reportFormat)
	}
	return nil
}

// buildWeekReport sums the minutes of every block in the ISO week of t.
func buildWeekReport(t time.Time, blocks []model.TimeBlock) weekReport {
	from, to := timecalc.WeekRange(t)
	rep := weekReport{
		Week: timecalc.ISOWeekLabel(t),
		From: from.Format(timecalc.DateLayout),
		To:   to.Format(timecalc.DateLayout),
	}

	totals := map[string]int{}
	var activities []string
	for _, b := range blocks {
		if b.Date < rep.From || b.Date > rep.To {
			continue
		}
		mins, ok := timecalc.DurationMinutes(b.Duration)
		if !ok {
			continue
		}
		if _, seen := totals[b.Activity]; !seen {
			activities = append(activities, b.Activity)
		}
		totals[b.Activity] += mins
		rep.TotalMinutes += mins
	}
	sort.Strings(activities)

	rep.Activities = make([]activityTotal, 0, len(activities))
	for _, a := range activities {
		rep.Activities = append(rep.Activities, activityTotal{Activity: a, Minutes: totals[a]})
	}
	return rep
}

func printWeekReport(w io.Writer, rep weekReport) {
	fmt.Fprintf(w, "Week %s (%s – %s)\n", rep.Week, rep.From, rep.To)
	fmt.Fprintln(w, "--------------------------------")
	for _, a := range rep.Activities {
		fmt.Fprintf(w, "%-20s%s\n", a.Activity, timecalc.FormatDuration(int64(a.Minutes)*60))
	}
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatDuration(int64(rep.TotalMinutes)*60))
}

func writeWeekCSV(w io.Writer, rep weekReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"activity", "duration_minutes"}); err != nil {
		return err
	}
	for _, a := range rep.Activities {
		if err := cw.Write([]string{a.Activity, strconv.Itoa(a.Minutes)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
