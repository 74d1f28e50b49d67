package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Tiliavir/daylog/internal/model"
)

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base, date string) string {
	return filepath.Join(base, date+".json")
}

// LoadDay loads the DayRecord for the given date. Returns an empty record if not found.
func LoadDay(base, date string) (model.DayRecord, error) {
	path := dayFilePath(base, date)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayRecord{Date: date, Tasks: []model.Task{}}, nil
	}
	if err != nil {
		return model.DayRecord{}, errors.Wrapf(err, "storage error reading %s", path)
	}

	var rec model.DayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayRecord{}, errors.Wrapf(err, "corrupt JSON in %s (backed up to %s)", path, backupPath)
	}
	if rec.Date == "" {
		rec.Date = date
	}
	if rec.Tasks == nil {
		rec.Tasks = []model.Task{}
	}
	return rec, nil
}

// SaveDay atomically writes the DayRecord to its date's file.
func SaveDay(base string, rec model.DayRecord) error {
	if rec.Tasks == nil {
		rec.Tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return errors.Wrap(err, "storage error marshalling JSON")
	}
	return writeAtomic(dayFilePath(base, rec.Date), data)
}

// writeAtomic writes data to a temp file next to path, then renames it over
// path. A failed write leaves the previous content in place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "storage error creating directories")
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "storage error writing temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "storage error renaming temp file")
	}
	return nil
}
