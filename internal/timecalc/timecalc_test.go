package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"8小时", 480, true},
		{"40min", 40, true},
		{"0min", 0, true},
		{"读了小时", 0, false},
		{"min", 0, false},
		{"2h", 0, false},
		{"-1min", 0, false},
		{"153722867280912931小时", 0, false},
	}
	for _, tt := range tests {
		got, ok := timecalc.DurationMinutes(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDistribution(t *testing.T) {
	blocks := []model.TimeBlock{
		{Time: "08:00", Activity: "睡觉", Duration: "1小时"},
		{Time: "09:00", Activity: "阅读", Duration: "20min"},
		{Time: "10:00", Activity: "发呆", Duration: "一会儿min"},
		{Time: "11:00", Activity: "跑步", Duration: "20min"},
	}
	shares, total := timecalc.Distribution(blocks)
	assert.Equal(t, 100, total)
	require.Len(t, shares, 3)
	assert.InDelta(t, 60.0, shares[0].Percent, 0.001)
	assert.InDelta(t, 20.0, shares[1].Percent, 0.001)
	assert.Equal(t, "跑步", shares[2].Block.Activity)
}

func TestDistributionEmpty(t *testing.T) {
	shares, total := timecalc.Distribution(nil)
	assert.Empty(t, shares)
	assert.Zero(t, total)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", timecalc.Bar(1.9))
	assert.Equal(t, "███", timecalc.Bar(6.5))
	assert.Equal(t, 50, len([]rune(timecalc.Bar(100))))
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, 20, d.Day())

	_, err = timecalc.ParseDate("2024-13-01")
	assert.Error(t, err)
	_, err = timecalc.ParseDate("20240320")
	assert.Error(t, err)
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W09", timecalc.ISOWeekLabel(fri))
}

func TestStartAndEndOfDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), timecalc.StartOfDay(a))
	assert.Equal(t, time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC), timecalc.EndOfDay(a))
}
