package storage

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Tiliavir/daylog/internal/model"
)

// BlocksFile is the aggregate CSV of every saved time block.
const BlocksFile = "timeblocks.csv"

var blocksHeader = []string{"date", "time", "activity", "duration"}

func blocksPath(base string) string {
	return filepath.Join(base, BlocksFile)
}

// LoadBlocks reads all rows of the aggregate store. A missing file yields an
// empty slice.
func LoadBlocks(base string) ([]model.TimeBlock, error) {
	path := blocksPath(base)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return []model.TimeBlock{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "storage error opening %s", path)
	}
	defer f.Close()

	blocks, err := ReadBlocks(f)
	if err != nil {
		return nil, errors.Wrapf(err, "storage error reading %s", path)
	}
	return blocks, nil
}

// ReadBlocks decodes CSV with a header row. Columns are matched by name, so
// their order in the file does not matter.
func ReadBlocks(r io.Reader) ([]model.TimeBlock, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	blocks := []model.TimeBlock{}
	if len(records) == 0 {
		return blocks, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, name := range blocksHeader {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}

	field := func(rec []string, name string) string {
		if i := col[name]; i < len(rec) {
			return rec[i]
		}
		return ""
	}
	for _, rec := range records[1:] {
		blocks = append(blocks, model.TimeBlock{
			Date:     field(rec, "date"),
			Time:     field(rec, "time"),
			Activity: field(rec, "activity"),
			Duration: field(rec, "duration"),
		})
	}
	return blocks, nil
}

// WriteBlocks encodes blocks as CSV with the fixed header.
func WriteBlocks(w io.Writer, blocks []model.TimeBlock) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(blocksHeader); err != nil {
		return err
	}
	for _, b := range blocks {
		if err := cw.Write([]string{b.Date, b.Time, b.Activity, b.Duration}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MergeBlocks returns existing followed by added, keeping only the first
// block seen for each (date, time, activity) key. Existing rows therefore
// win over new rows with the same key.
func MergeBlocks(existing, added []model.TimeBlock) []model.TimeBlock {
	seen := make(map[model.Key]struct{}, len(existing)+len(added))
	merged := make([]model.TimeBlock, 0, len(existing)+len(added))
	for _, list := range [][]model.TimeBlock{existing, added} {
		for _, b := range list {
			if _, dup := seen[b.Key()]; dup {
				continue
			}
			seen[b.Key()] = struct{}{}
			merged = append(merged, b)
		}
	}
	return merged
}

// SaveBlocks merges rows into the aggregate store and rewrites it atomically.
// Existing rows are always loaded first; if they cannot be read nothing is
// written. Callers must not run concurrent saves against the same base.
func SaveBlocks(base string, rows []model.TimeBlock) error {
	existing, err := LoadBlocks(base)
	if err != nil {
		return err
	}
	merged := MergeBlocks(existing, rows)

	var buf bytes.Buffer
	if err := WriteBlocks(&buf, merged); err != nil {
		return errors.Wrap(err, "storage error encoding CSV")
	}
	if err := writeAtomic(blocksPath(base), buf.Bytes()); err != nil {
		return err
	}

	log.Debug().
		Int("existing", len(existing)).
		Int("added", len(merged)-len(existing)).
		Int("total", len(merged)).
		Msg("time blocks merged")
	return nil
}
