// Package timeblock validates the multi-line time-block text of a day and
// turns it into TimeBlock records.
package timeblock

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Tiliavir/daylog/internal/interpret"
	"github.com/Tiliavir/daylog/internal/model"
)

// Formats describes the accepted line shapes for user-facing messages.
const Formats = `expected "HH:MM activity duration", e.g. "08:00 睡觉 8小时" or "09:30 阅读 40min"; ` +
	`natural language such as "下午读了2小时书" is also accepted`

// ValidationError reports the first line that could not be parsed.
// Line is 1-based and counts blank lines.
type ValidationError struct {
	Line int
	Raw  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: invalid time block %q", e.Line, e.Raw)
}

// Result is the outcome of a successful Normalize call.
type Result struct {
	Blocks []model.TimeBlock
	// Text is the input with every accepted line replaced by its canonical form.
	Text string
	// Corrected reports whether Text differs from the input.
	Corrected bool
}

// legacyClock matches "08: 00" at the start of a line. Older records were
// accepted in that shape; it is rewritten to "08:00" and nothing looser is
// allowed.
var legacyClock = regexp.MustCompile(`^(\d{2}): (\d{2})(\s|$)`)

// Normalize parses every non-blank line of text into a TimeBlock for date.
// A line that fails strict parsing is handed to the interpreter and the
// result is re-validated. The first line failing both returns a
// *ValidationError and no blocks.
func Normalize(text, date string) (Result, error) {
	lines := strings.Split(text, "\n")
	blocks := make([]model.TimeBlock, 0, len(lines))

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		b, ok := ParseLine(trimmed)
		if !ok {
			if guess, recognized := interpret.Interpret(trimmed); recognized {
				b, ok = ParseLine(guess)
			}
		}
		if !ok {
			return Result{}, &ValidationError{Line: i + 1, Raw: raw}
		}

		b.Date = date
		blocks = append(blocks, b)
		lines[i] = Canonical(b)
	}

	out := strings.Join(lines, "\n")
	return Result{Blocks: blocks, Text: out, Corrected: out != text}, nil
}

// ParseLine strictly parses one canonical line. The returned block has no
// date set.
func ParseLine(line string) (model.TimeBlock, bool) {
	line = strings.TrimSpace(line)
	line = legacyClock.ReplaceAllString(line, "$1:$2$3")

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return model.TimeBlock{}, false
	}

	clock, ok := parseClock(fields[0])
	if !ok {
		return model.TimeBlock{}, false
	}
	duration := fields[len(fields)-1]
	if !validDuration(duration) {
		return model.TimeBlock{}, false
	}

	return model.TimeBlock{
		Time:     clock,
		Activity: strings.Join(fields[1:len(fields)-1], " "),
		Duration: duration,
	}, true
}

// Canonical renders a block as "HH:MM activity duration".
func Canonical(b model.TimeBlock) string {
	return b.Time + " " + b.Activity + " " + b.Duration
}

// parseClock accepts a token with exactly one colon and exactly four digits
// once the colon is removed, and returns it as HH:MM.
func parseClock(tok string) (string, bool) {
	if strings.Count(tok, ":") != 1 {
		return "", false
	}
	digits := strings.ReplaceAll(tok, ":", "")
	if len(digits) != 4 {
		return "", false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return digits[:2] + ":" + digits[2:], true
}

func validDuration(tok string) bool {
	return strings.HasSuffix(tok, interpret.HourSuffix) || strings.HasSuffix(tok, interpret.MinuteSuffix)
}
