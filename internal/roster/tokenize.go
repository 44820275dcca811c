package roster

import (
	"strings"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// midnightBug is the non-existent time AIMS sometimes prints for midnight.
const midnightBug = "24:00"

// Day is the tokenized content of one roster column.
type Day struct {
	Date   time.Time
	Blocks []model.Block
	// Event is set when the column holds only an all-day event code.
	Event *model.AllDayEvent
}

// parseTime converts a strict HH:MM cell on date into a time point. The
// literal "24:00" is midnight of the following day.
func parseTime(cell string, date time.Time) (time.Time, bool) {
	if cell == midnightBug {
		return date.AddDate(0, 0, 1), true
	}
	if len(cell) != len("15:04") {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", cell)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
}

// Tokenize converts one column into blocks of tokens. Blank cells separate
// blocks and are dropped.
func Tokenize(col model.Column) Day {
	date := dayStart(col.Date)
	day := Day{Date: date}

	var current model.Block
	flush := func() {
		if len(current) > 0 {
			day.Blocks = append(day.Blocks, current)
			current = nil
		}
	}
	for _, cell := range col.Cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			flush()
			continue
		}
		if t, ok := parseTime(cell, date); ok {
			current = append(current, model.Time(t))
		} else {
			current = append(current, model.Label(cell, date))
		}
	}
	flush()

	// A lone label with no times anywhere in the column is an all-day event.
	if len(day.Blocks) == 1 && len(day.Blocks[0]) == 1 && day.Blocks[0][0].IsLabel() {
		day.Event = &model.AllDayEvent{Date: date, Code: day.Blocks[0][0].Text}
		day.Blocks = nil
	}
	return day
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
