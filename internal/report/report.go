// Package report renders parsed rosters as text summaries, flight journal
// entries, logbook CSV and iCalendar feeds.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bryan-cox/aimsledger/internal/crew"
	"github.com/bryan-cox/aimsledger/internal/model"
)

// Output formats understood by Render.
const (
	FormatRoster = "roster"
	FormatEFJ    = "efj"
	FormatCSV    = "csv"
	FormatICal   = "ical"
)

// ErrUnknownFormat is returned by Render for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// Options tune the renderers. The zero value renders in UTC without crew,
// airframes or all-day events.
type Options struct {
	// Location is used for local times in the roster summary.
	Location *time.Location
	// Airframes maps airframe.FlightID keys to registration and type.
	Airframes map[string]model.Airframe
	// FirstOfficer marks the logbook owner as a first officer, so the
	// captain's name is taken from the crew list.
	FirstOfficer bool
	// AllDayEvents adds days off and similar codes to calendar output.
	AllDayEvents bool
	// Now stamps calendar events; zero means time.Now.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Formats lists the formats Render accepts.
func Formats() []string {
	return []string{FormatRoster, FormatEFJ, FormatCSV, FormatICal}
}

// Render writes r to out in the named format.
func Render(out io.Writer, format string, r *model.Roster, opts Options) error {
	switch format {
	case FormatRoster:
		Roster(out, r.Duties, opts)
		return nil
	case FormatEFJ:
		EFJ(out, r, opts)
		return nil
	case FormatCSV:
		return CSV(out, r, opts)
	case FormatICal:
		return ICal(out, r, opts)
	default:
		return fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// flying reports whether a sector belongs in a logbook.
func flying(s model.Sector) bool {
	return !s.Quasi() && !s.Positioning
}

// hm formats a duration as H:MM.
func hm(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}

// crewTags returns "ROLE:Name" for each crew member of a sector.
func crewTags(list model.CrewList, s model.Sector) []string {
	members := list.For(s.Off, s.Name)
	tags := make([]string, 0, len(members))
	for _, m := range members {
		tags = append(tags, m.Role+":"+crew.CleanName(m.Name))
	}
	return tags
}

// route joins the places visited in a duty, e.g. "BRS-FNC-BRS". Ground
// duties appear by code and positioning sectors as "[psn]".
func route(sectors []model.Sector) string {
	var from string
	var stops []string
	for _, s := range sectors {
		if from == "" && s.From != "" {
			from = s.From
		}
		switch {
		case s.Quasi():
			stops = append(stops, s.Name)
		case s.Positioning:
			stops = append(stops, "[psn]")
		}
		if s.To != "" {
			stops = append(stops, s.To)
		}
	}
	if from != "" {
		stops = append([]string{from}, stops...)
	}
	return strings.Join(stops, "-")
}

// inRange returns the duties starting on a day between from and to
// inclusive, sorted by start.
func inRange(duties []model.Duty, from, to time.Time) []model.Duty {
	var out []model.Duty
	last := to.AddDate(0, 0, 1)
	for _, d := range duties {
		if !d.Start.Before(from) && d.Start.Before(last) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
