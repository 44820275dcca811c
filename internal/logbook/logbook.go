// Package logbook reads the AIMS Pilot Logbook report: a table with one row
// per flown sector, printed with the registration, type and captain.
package logbook

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/model"
)

// Marker identifies a Pilot Logbook report.
const Marker = "Pilot Logbook"

const (
	// MaxGap is the longest gap between sectors of one duty.
	MaxGap = 10 * time.Hour

	reportBefore = time.Hour
	debriefAfter = 30 * time.Minute
)

// Fields of a sector row, counted over the non-empty cells.
const (
	colDate = iota
	colFlight
	colFrom
	colOff
	colTo
	colOn
	colType
	colReg
	colBlock
	colCaptain
)

var dateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)

// Is reports whether doc is a Pilot Logbook report.
func Is(doc *goquery.Document) bool {
	return strings.Contains(strings.ReplaceAll(doc.Text(), "\u00a0", " "), Marker)
}

// Extract builds a roster from a parsed logbook document. The registration
// and captain of each sector are recorded in the roster's Airframes and
// Crew. A malformed sector row fails with a *model.InputFileError.
func Extract(doc *goquery.Document) (*model.Roster, error) {
	r := &model.Roster{
		Crew:      model.CrewList{},
		Airframes: map[string]model.Airframe{},
	}

	var sectors []model.Sector
	for _, row := range rows(doc) {
		s, err := sector(row)
		if err != nil {
			return nil, &model.InputFileError{Reason: err.Error()}
		}
		sectors = append(sectors, s)

		if row[colReg] != "" {
			r.Airframes[airframe.FlightID(s)] = model.Airframe{Reg: row[colReg], Type: row[colType]}
		}
		key := model.CrewKey{Date: dayOf(s.Off), Flight: s.Name}
		r.Crew[key] = []model.CrewMember{{Name: row[colCaptain], Role: "CP"}}
	}

	sort.SliceStable(sectors, func(a, b int) bool {
		return sectors[a].Off.Before(sectors[b].Off)
	})
	r.Duties = Duties(sectors)
	return r, nil
}

// Duties groups sectors sorted by Off. A gap of more than MaxGap starts a new
// duty. Each duty runs from an hour before its first off-blocks to thirty
// minutes after its last on-blocks.
func Duties(sectors []model.Sector) []model.Duty {
	var duties []model.Duty
	for i, s := range sectors {
		if i == 0 || s.Off.Sub(sectors[i-1].On) > MaxGap {
			duties = append(duties, model.Duty{Start: s.Off, Finish: s.On})
		}
		d := &duties[len(duties)-1]
		d.Sectors = append(d.Sectors, s)
		if s.Off.Before(d.Start) {
			d.Start = s.Off
		}
		if s.On.After(d.Finish) {
			d.Finish = s.On
		}
	}
	for i := range duties {
		duties[i].Start = duties[i].Start.Add(-reportBefore)
		duties[i].Finish = duties[i].Finish.Add(debriefAfter)
	}
	return duties
}

// rows returns the sector rows of the report: the first line of every
// non-empty cell, for rows that start with a dd/mm/yy date and run past the
// captain.
func rows(doc *goquery.Document) [][]string {
	doc.Find("br").ReplaceWithHtml("\n")

	var out [][]string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var fields []string
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			if line := firstLine(td.Text()); line != "" {
				fields = append(fields, line)
			}
		})
		if len(fields) > colCaptain+1 && dateRe.MatchString(fields[colDate]) {
			out = append(out, fields)
		}
	})
	return out
}

func firstLine(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func sector(row []string) (model.Sector, error) {
	date, err := time.Parse("02/01/06", row[colDate])
	if err != nil {
		return model.Sector{}, fmt.Errorf("bad logbook date %q: %w", row[colDate], err)
	}
	off, err := clock(date, row[colOff])
	if err != nil {
		return model.Sector{}, err
	}
	on, err := clock(date, row[colOn])
	if err != nil {
		return model.Sector{}, err
	}
	if on.Before(off) {
		on = on.Add(24 * time.Hour)
	}

	return model.Sector{
		Name: row[colFlight],
		From: row[colFrom],
		To:   row[colTo],
		Off:  off,
		On:   on,
		Src: []model.Token{
			model.Label(row[colFlight], date),
			model.Time(off),
			model.Label(row[colFrom], date),
			model.Label(row[colTo], date),
			model.Time(on),
		},
	}, nil
}

func clock(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad logbook time %q: %w", hhmm, err)
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
