// Package interpret turns loose Chinese phrases such as "下午读了2小时书"
// into canonical time-block lines ("14:00 读了2小时书 2小时").
package interpret

import (
	"regexp"
	"strings"
)

// periods maps time-of-day words to a representative clock time.
// The first entry present anywhere in the text wins, so order matters.
var periods = []struct {
	words []string
	clock string
}{
	{[]string{"早上", "早晨"}, "07:00"},
	{[]string{"上午"}, "09:00"},
	{[]string{"中午"}, "12:00"},
	{[]string{"下午"}, "14:00"},
	{[]string{"晚上"}, "20:00"},
	{[]string{"凌晨"}, "00:00"},
}

// units maps a duration unit word to its canonical suffix. Longer spellings
// come first so that "个小时" and "个分钟" are not read as the bare count word.
var units = []struct {
	word   string
	suffix string
}{
	{"个小时", HourSuffix},
	{"个分钟", MinuteSuffix},
	{"个min", MinuteSuffix},
	{"小时", HourSuffix},
	{"个", HourSuffix},
	{"分钟", MinuteSuffix},
	{"min", MinuteSuffix},
}

const (
	// HourSuffix terminates a duration measured in hours.
	HourSuffix = "小时"
	// MinuteSuffix terminates a duration measured in minutes.
	MinuteSuffix = "min"
	// DefaultDuration is used when the text names no duration.
	DefaultDuration = "30" + MinuteSuffix
)

var durationPattern = regexp.MustCompile(`(\d+)(个小时|个分钟|个min|小时|个|分钟|min)`)

// Line is a recognized phrase split into its canonical parts.
type Line struct {
	Time     string
	Activity string
	Duration string
}

// String renders the canonical "<time> <activity> <duration>" form.
func (l Line) String() string {
	return l.Time + " " + l.Activity + " " + l.Duration
}

// Parse recognizes a time-of-day word and a duration phrase in text.
// ok is false when no time of day is found or nothing is left for the
// activity; that is an expected outcome, not an error.
func Parse(text string) (Line, bool) {
	line := Line{
		Time:     clockOf(text),
		Duration: durationOf(text),
	}

	activity := text
	for _, p := range periods {
		for _, w := range p.words {
			activity = strings.ReplaceAll(activity, w, "")
		}
	}
	line.Activity = strings.TrimSpace(activity)

	if line.Time == "" || line.Activity == "" || line.Duration == "" {
		return Line{}, false
	}
	return line, true
}

// Interpret returns the canonical line for text, or ok == false when the
// text is not recognized.
func Interpret(text string) (string, bool) {
	line, ok := Parse(text)
	if !ok {
		return "", false
	}
	return line.String(), true
}

func clockOf(text string) string {
	for _, p := range periods {
		for _, w := range p.words {
			if strings.Contains(text, w) {
				return p.clock
			}
		}
	}
	return ""
}

func durationOf(text string) string {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultDuration
	}
	for _, u := range units {
		if u.word == m[2] {
			return m[1] + u.suffix
		}
	}
	return DefaultDuration
}
