// Package journal saves a day's record together with its time blocks.
package journal

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Tiliavir/daylog/internal/model"
	"github.com/Tiliavir/daylog/internal/storage"
	"github.com/Tiliavir/daylog/internal/timeblock"
)

// Commit validates rec.TimeBlocks, writes the day file and merges the blocks
// into the aggregate store. On a *timeblock.ValidationError nothing is
// written. The returned record carries the corrected block text.
func Commit(base string, rec model.DayRecord) (model.DayRecord, []model.TimeBlock, error) {
	res, err := timeblock.Normalize(rec.TimeBlocks, rec.Date)
	if err != nil {
		return rec, nil, err
	}
	if res.Corrected {
		log.Debug().Str("date", rec.Date).Str("text", res.Text).Msg("time blocks rewritten")
		rec.TimeBlocks = res.Text
	}

	if err := storage.SaveDay(base, rec); err != nil {
		return rec, nil, err
	}
	if strings.TrimSpace(rec.TimeBlocks) != "" {
		if err := storage.SaveBlocks(base, res.Blocks); err != nil {
			return rec, nil, err
		}
	}
	return rec, res.Blocks, nil
}

// AppendLine adds line to the block text, separated by a newline.
func AppendLine(text, line string) string {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return line
	}
	return text + "\n" + line
}
