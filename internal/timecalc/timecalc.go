package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/daylog/internal/interpret"
	"github.com/Tiliavir/daylog/internal/model"
)

// DateLayout is the format of every date key.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in the local timezone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// DurationMinutes converts a canonical duration ("8小时", "40min") to minutes.
func DurationMinutes(d string) (int, bool) {
	var num string
	var factor int
	switch {
	case strings.HasSuffix(d, interpret.HourSuffix):
		num, factor = strings.TrimSuffix(d, interpret.HourSuffix), 60
	case strings.HasSuffix(d, interpret.MinuteSuffix):
		num, factor = strings.TrimSuffix(d, interpret.MinuteSuffix), 1
	default:
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 || n > math.MaxInt/factor {
		return 0, false
	}
	return n * factor, true
}

// Share is one block's part of the day's recorded time.
type Share struct {
	Block   model.TimeBlock
	Minutes int
	Percent float64
}

// Distribution returns each measurable block with its share of the total.
// Blocks whose duration has no integer amount are left out.
func Distribution(blocks []model.TimeBlock) ([]Share, int) {
	var shares []Share
	total := 0
	for _, b := range blocks {
		mins, ok := DurationMinutes(b.Duration)
		if !ok {
			continue
		}
		total += mins
		shares = append(shares, Share{Block: b, Minutes: mins})
	}
	if total == 0 {
		return shares, 0
	}
	for i := range shares {
		shares[i].Percent = float64(shares[i].Minutes) / float64(total) * 100
	}
	return shares, total
}

// Bar renders one █ per two percent.
func Bar(percent float64) string {
	return strings.Repeat("█", int(percent/2))
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
