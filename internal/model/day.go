package model

// TimeBlock is one validated activity entry of a day.
type TimeBlock struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Duration string `json:"duration"`
}

// Key identifies a block in the aggregate store.
type Key struct {
	Date     string
	Time     string
	Activity string
}

// Key returns the dedup key (date, time, activity).
func (b TimeBlock) Key() Key {
	return Key{Date: b.Date, Time: b.Time, Activity: b.Activity}
}

// Task is one checklist item.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// DayRecord is the top-level structure stored in each daily JSON file.
// TimeBlocks holds the raw multi-line text, not the parsed blocks.
type DayRecord struct {
	Date       string `json:"date"`
	TimeBlocks string `json:"time_blocks"`
	Diary      string `json:"diary"`
	Tasks      []Task `json:"tasks"`
	Mood       string `json:"mood"`
}

// Moods lists the accepted mood keys in display order.
var Moods = []struct {
	Key   string
	Label string
}{
	{"happy", "开心"},
	{"smile", "微笑"},
	{"neutral", "平静"},
	{"sad", "难过"},
	{"angry", "生气"},
	{"sleepy", "困倦"},
	{"think", "思考"},
}

// ValidMood reports whether key is one of Moods. The empty mood is valid.
func ValidMood(key string) bool {
	if key == "" {
		return true
	}
	for _, m := range Moods {
		if m.Key == key {
			return true
		}
	}
	return false
}
