package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timeblock"
)

func TestRenderMarkdown(t *testing.T) {
	rec := model.DayRecord{
		Date:       "2024-03-20",
		TimeBlocks: "08:00 睡觉 8小时\n14:00 读书 2小时",
		Diary:      "平静的一天",
		Tasks:      []model.Task{{Text: "写周报", Done: true}, {Text: "买菜"}},
		Mood:       "happy",
	}

	want := "# 2024-03-20 时间记录\n\n" +
		"## 时间块\n08:00 睡觉 8小时\n14:00 读书 2小时\n\n" +
		"## 今日总结\n平静的一天\n\n" +
		"## 今日待办\n- [x] 写周报\n- [ ] 买菜\n\n" +
		"## 心情\nhappy\n"
	assert.Equal(t, want, renderMarkdown(rec))
}

func TestRenderMarkdown_EmptyRecord(t *testing.T) {
	got := renderMarkdown(model.DayRecord{Date: "2024-03-20", Tasks: []model.Task{}})
	assert.True(t, strings.HasPrefix(got, "# 2024-03-20 时间记录\n"))
	assert.Contains(t, got, "## 今日待办\n\n\n")
}

func TestPrintValidationError(t *testing.T) {
	var buf bytes.Buffer
	printValidationError(&buf, &timeblock.ValidationError{Line: 3, Raw: "随便写写"})

	out := buf.String()
	assert.Contains(t, out, "Line 3")
	assert.Contains(t, out, `"随便写写"`)
	assert.Contains(t, out, timeblock.Formats)
}

func TestBlockText(t *testing.T) {
	got, err := blockText([]string{"08:00 睡觉 8小时", "下午读了2小时书"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "08:00 睡觉 8小时\n下午读了2小时书", got)

	got, err = blockText(nil, strings.NewReader("08:00 睡觉 8小时\n"))
	require.NoError(t, err)
	assert.Equal(t, "08:00 睡觉 8小时\n", got)
}

func TestPrintTasks(t *testing.T) {
	var buf bytes.Buffer
	printTasks(&buf, []model.Task{{Text: "a", Done: true}, {Text: "b"}})
	assert.Equal(t, "1. - [x] a\n2. - [ ] b\n", buf.String())

	buf.Reset()
	printTasks(&buf, nil)
	assert.Equal(t, "No tasks.\n", buf.String())
}

func TestPrintStats(t *testing.T) {
	blocks := []model.TimeBlock{
		{Date: "2024-03-20", Time: "08:00", Activity: "睡觉", Duration: "3小时"},
		{Date: "2024-03-20", Time: "14:00", Activity: "读书", Duration: "60min"},
	}
	var buf bytes.Buffer
	printStats(&buf, blocks)

	out := buf.String()
	assert.Contains(t, out, "Total recorded: 240 min (4h 0m)")
	assert.Contains(t, out, "08:00 睡觉: "+strings.Repeat("█", 37)+" 75.0%")
	assert.Contains(t, out, "14:00 读书: "+strings.Repeat("█", 12)+" 25.0%")
}

func TestBuildWeekReport(t *testing.T) {
	blocks := []model.TimeBlock{
		{Date: "2024-03-18", Time: "09:00", Activity: "写代码", Duration: "2小时"},
		{Date: "2024-03-20", Time: "09:00", Activity: "写代码", Duration: "30min"},
		{Date: "2024-03-24", Time: "20:00", Activity: "看电影", Duration: "2小时"},
		{Date: "2024-03-25", Time: "09:00", Activity: "写代码", Duration: "8小时"},
		{Date: "2024-03-17", Time: "09:00", Activity: "写代码", Duration: "8小时"},
	}
	day, err := time.ParseInLocation("2006-01-02", "2024-03-20", time.Local)
	require.NoError(t, err)

	rep := buildWeekReport(day, blocks)
	assert.Equal(t, "2024-W12", rep.Week)
	assert.Equal(t, "2024-03-18", rep.From)
	assert.Equal(t, "2024-03-24", rep.To)
	assert.Equal(t, []activityTotal{
		{Activity: "写代码", Minutes: 150},
		{Activity: "看电影", Minutes: 120},
	}, rep.Activities)
	assert.Equal(t, 270, rep.TotalMinutes)

	var buf bytes.Buffer
	require.NoError(t, writeWeekCSV(&buf, rep))
	assert.Equal(t, "activity,duration_minutes\n写代码,150\n看电影,120\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteWeekCSV_WriterError(t *testing.T) {
	rep := weekReport{Activities: []activityTotal{{Activity: "写代码", Minutes: 150}}}
	assert.EqualError(t, writeWeekCSV(failingWriter{}, rep), "disk full")
}

func TestSyncRange(t *testing.T) {
	from, to, err := syncRange("2024-03-20", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-20 00:00:00", from.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2024-03-20 23:59:59", to.Format("2006-01-02 15:04:05"))

	from, to, err = syncRange("2024-03-20", "2024-03-18", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-18", from.Format("2006-01-02"))
	assert.Equal(t, "2024-03-20", to.Format("2006-01-02"))

	_, _, err = syncRange("2024-03-20", "", "2024-03-21")
	assert.Error(t, err)

	_, _, err = syncRange("2024-03-20", "2024-03-21", "2024-03-19")
	assert.Error(t, err)

	_, _, err = syncRange("2024-03-20", "2024/03/18", "")
	assert.Error(t, err)
}

func execute(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestCommands_RecordADay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	data := t.TempDir()
	flags := []string{"--data-dir", data, "--date", "2024-03-20"}

	execute(t, append([]string{"blocks", "set", "08:00 睡觉 8小时", "下午读了2小时书"}, flags...)...)
	execute(t, append([]string{"blocks", "add", "07:30", "跑步", "30min"}, flags...)...)
	execute(t, append([]string{"diary", "平静的一天"}, flags...)...)
	execute(t, append([]string{"mood", "smile"}, flags...)...)
	execute(t, append([]string{"task", "add", "写周报"}, flags...)...)
	execute(t, append([]string{"task", "done", "1"}, flags...)...)

	rec, err := storage.LoadDay(data, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, "08:00 睡觉 8小时\n14:00 读了2小时书 2小时\n07:30 跑步 30min", rec.TimeBlocks)
	assert.Equal(t, "平静的一天", rec.Diary)
	assert.Equal(t, "smile", rec.Mood)
	assert.Equal(t, []model.Task{{Text: "写周报", Done: true}}, rec.Tasks)

	stored, err := storage.LoadBlocks(data)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
