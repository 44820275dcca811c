package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryan-cox/aimsledger/internal/model"
)

const (
	icalStamp = "20060102T150405Z"
	icalDate  = "20060102"
)

// uidSpace namespaces event UIDs. A duty keeps its UID across exports.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/bryan-cox/aimsledger"))

var icalEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// ICal writes an iCalendar feed with one event per duty and, if enabled,
// one all-day event per day code.
func ICal(out io.Writer, r *model.Roster, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format(icalStamp)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//aimsledger//roster//EN",
	}
	for _, duty := range r.Duties {
		if len(duty.Sectors) == 0 {
			continue
		}
		summary := route(duty.Sectors)
		start, finish := duty.Start.UTC().Format(icalStamp), duty.Finish.UTC().Format(icalStamp)
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+uid(start, finish, summary),
			"DTSTAMP:"+stamp,
			"DTSTART:"+start,
			"DTEND:"+finish,
			"SUMMARY:"+icalEscaper.Replace(summary),
			"DESCRIPTION:"+icalEscaper.Replace(describe(duty)),
			"END:VEVENT",
		)
	}
	if opts.AllDayEvents {
		for _, ev := range r.AllDayEvents {
			day := ev.Date.Format(icalDate)
			lines = append(lines,
				"BEGIN:VEVENT",
				"UID:"+uid(day, ev.Code),
				"DTSTAMP:"+stamp,
				"DTSTART;VALUE=DATE:"+day,
				"DTEND;VALUE=DATE:"+ev.Date.AddDate(0, 0, 1).Format(icalDate),
				"SUMMARY:"+icalEscaper.Replace(ev.Code),
				"TRANSP:TRANSPARENT",
				"END:VEVENT",
			)
		}
	}
	lines = append(lines, "END:VCALENDAR")

	for _, line := range lines {
		if _, err := io.WriteString(out, line+"\r\n"); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
	}
	return nil
}

func uid(parts ...string) string {
	return uuid.NewSHA1(uidSpace, []byte(strings.Join(parts, "|"))).String()
}

// describe lists a duty's sectors, one per line.
func describe(duty model.Duty) string {
	var lines []string
	for _, s := range duty.Sectors {
		times := s.Off.UTC().Format("1504") + "/" + s.On.UTC().Format("1504")
		switch {
		case s.Quasi():
			lines = append(lines, fmt.Sprintf("%s %s", s.Name, times))
		case s.Positioning:
			lines = append(lines, fmt.Sprintf("%s %s-%s %s [psn]", s.Name, s.From, s.To, times))
		default:
			lines = append(lines, fmt.Sprintf("%s %s-%s %s", s.Name, s.From, s.To, times))
		}
	}
	return strings.Join(lines, "\n")
}
