package msgraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tiliavir/daylog/internal/interpret"
	"github.com/Tiliavir/daylog/internal/journal"
	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timeblock"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

// untitled names events without a subject.
const untitled = "(no subject)"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base     string
	DryRun   bool
	Timezone string
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private":
		return true
	case event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEventToBlock converts a Graph CalendarEvent into a time block dated on
// the event's start day, with its length in minutes.
func MapEventToBlock(event CalendarEvent, timezone string) (model.TimeBlock, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.TimeBlock{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.TimeBlock{}, fmt.Errorf("parsing end time: %w", err)
	}
	if end.Before(start) {
		return model.TimeBlock{}, fmt.Errorf("event ends before it starts")
	}

	activity := strings.Join(strings.Fields(event.Subject), " ")
	if activity == "" {
		activity = untitled
	}
	minutes := int(end.Sub(start) / time.Minute)

	return model.TimeBlock{
		Date:     start.Format(timecalc.DateLayout),
		Time:     start.Format("15:04"),
		Activity: activity,
		Duration: fmt.Sprintf("%d%s", minutes, interpret.MinuteSuffix),
	}, nil
}

// SyncEvents appends each importable event to its day's time blocks and
// commits every touched day through journal.Commit. Events whose time and
// activity already appear on that day are skipped. Progress goes to stdout.
func SyncEvents(events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	var dates []string
	byDate := map[string][]model.TimeBlock{}
	for _, event := range events {
		if shouldSkip(event) {
			continue
		}
		b, err := MapEventToBlock(event, opts.Timezone)
		if err != nil {
			fmt.Printf("  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		if _, ok := byDate[b.Date]; !ok {
			dates = append(dates, b.Date)
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	for _, date := range dates {
		blocks := byDate[date]

		rec, err := storage.LoadDay(opts.Base, date)
		if err != nil {
			fmt.Printf("  ! Error loading %s: %v\n", date, err)
			result.Errors += len(blocks)
			continue
		}
		current, err := timeblock.Normalize(rec.TimeBlocks, date)
		if err != nil {
			fmt.Printf("  ! Existing time blocks of %s are invalid: %v\n", date, err)
			result.Errors += len(blocks)
			continue
		}

		type slot struct{ time, activity string }
		present := map[slot]bool{}
		for _, b := range current.Blocks {
			present[slot{b.Time, b.Activity}] = true
		}

		added := 0
		for _, b := range blocks {
			if present[slot{b.Time, b.Activity}] {
				fmt.Printf("  – Skipped:  %s %s %s (already exists)\n", date, b.Time, b.Activity)
				result.Skipped++
				continue
			}
			present[slot{b.Time, b.Activity}] = true
			rec.TimeBlocks = journal.AppendLine(rec.TimeBlocks, timeblock.Canonical(b))
			mins, _ := timecalc.DurationMinutes(b.Duration)
			fmt.Printf("  ✓ Imported: %s %s %s (%s)\n", date, b.Time, b.Activity, timecalc.FormatDuration(int64(mins)*60))
			added++
		}
		if added == 0 || opts.DryRun {
			result.Imported += added
			continue
		}

		if _, _, err := journal.Commit(opts.Base, rec); err != nil {
			fmt.Printf("  ! Error saving %s: %v\n", date, err)
			result.Errors += added
			continue
		}
		result.Imported += added
	}

	return result, nil
}
