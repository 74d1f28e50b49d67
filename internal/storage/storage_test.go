package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
)

func TestLoadDayNotExist(t *testing.T) {
	base := t.TempDir()
	rec, err := storage.LoadDay(base, "2026-02-27")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-27", rec.Date)
	assert.Empty(t, rec.TimeBlocks)
	assert.NotNil(t, rec.Tasks)
	assert.Empty(t, rec.Tasks)
}

func TestSaveDayAndLoadDay(t *testing.T) {
	base := t.TempDir()
	rec := model.DayRecord{
		Date:       "2026-02-27",
		TimeBlocks: "08:00 睡觉 8小时",
		Diary:      "今天不错",
		Tasks:      []model.Task{{Text: "写周报", Done: true}},
		Mood:       "happy",
	}
	require.NoError(t, storage.SaveDay(base, rec))

	loaded, err := storage.LoadDay(base, "2026-02-27")
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)

	data, err := os.ReadFile(filepath.Join(base, "2026-02-27.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"time_blocks": "08:00 睡觉 8小时"`)
	assert.NoFileExists(t, filepath.Join(base, "2026-02-27.json.tmp"))
}

func TestLoadDayCorruptIsBackedUp(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "2026-02-27.json")
	require.NoError(t, os.WriteFile(path, []byte("{bad json"), 0o600))

	_, err := storage.LoadDay(base, "2026-02-27")
	require.Error(t, err)
	assert.FileExists(t, path+".corrupt")
	assert.NoFileExists(t, path)
}
