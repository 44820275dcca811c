package report

import (
	"fmt"
	"io"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// Summary totals the duties that start within a date range.
type Summary struct {
	From    time.Time
	To      time.Time
	Duties  int
	Sectors int
	Block   time.Duration
	Night   time.Duration
	Duty    time.Duration
}

// DateRange resolves the --start-date/--end-date pair against a roster.
// A single date selects that day; no dates select every day with a duty.
func DateRange(duties []model.Duty, startStr, endStr string) (time.Time, time.Time, error) {
	if startStr != "" && endStr == "" {
		endStr = startStr
	}
	if endStr != "" && startStr == "" {
		startStr = endStr
	}

	if startStr == "" && endStr == "" {
		if len(duties) == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("no duties found in the roster")
		}
		first, last := duties[0].Start, duties[0].Start
		for _, d := range duties[1:] {
			if d.Start.Before(first) {
				first = d.Start
			}
			if d.Start.After(last) {
				last = d.Start
			}
		}
		return truncateDay(first), truncateDay(last), nil
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date format, use YYYY-MM-DD: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date format, use YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date cannot be before start date")
	}
	return start, end, nil
}

// Summarize totals the duties starting on a day from from to to inclusive.
func Summarize(duties []model.Duty, from, to time.Time) Summary {
	sum := Summary{From: from, To: to}
	for _, d := range inRange(duties, from, to) {
		sum.Duties++
		sum.Duty += d.Duration()
		for _, s := range d.Sectors {
			if !flying(s) {
				continue
			}
			sum.Sectors++
			sum.Block += s.Duration()
			sum.Night += NightDuration(s)
		}
	}
	return sum
}

// PrintSummary writes a human-readable hours summary.
func PrintSummary(out io.Writer, sum Summary) {
	fmt.Fprintf(out, "Hours from %s to %s\n", sum.From.Format("2006-01-02"), sum.To.Format("2006-01-02"))
	fmt.Fprintf(out, "    • Duties: %d (%s)\n", sum.Duties, hm(sum.Duty))
	fmt.Fprintf(out, "    • Sectors: %d\n", sum.Sectors)
	fmt.Fprintf(out, "    • Block: %s\n", hm(sum.Block))
	fmt.Fprintf(out, "    • Night: %s\n", hm(sum.Night))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
