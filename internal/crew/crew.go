// Package crew parses the crew list printed beneath the schedule of a
// detailed roster.
//
// Each record starts with a date and either "All" or a comma separated list
// of flight numbers, followed by role-tagged names:
//
//	10/04/2019 569,570,6253     FO> VINCENT RICHARD     PU> SIMS GEORGIA
//	                            FA> LINE EXTRA
//
// Indented lines without a date continue the previous record.
package crew

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// AllFlights is the flight field used for crew that applies to a whole day.
const AllFlights = "All"

// ErrBadCrewLine is returned for crew records that cannot be parsed.
var ErrBadCrewLine = errors.New("bad crew line")

var (
	datedRe  = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s`)
	recordRe = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\S+)\s+([A-Z]{2}>.*)$`)
	contRe   = regexp.MustCompile(`^\s+[A-Z]{2}>`)
	flightRe = regexp.MustCompile(`^\*?[0-9A-Z]+$`)
	// A role may carry a two letter qualifier, e.g. "FO>FD".
	roleRe = regexp.MustCompile(`([A-Z]{2})>(?:[A-Z]{2}\s)?`)
)

type record struct {
	date    time.Time
	flights []string
	members []model.CrewMember
}

// Parse extracts the crew list from the text lines of a roster. Lines that
// are not part of the crew list are ignored.
func Parse(lines []string) (model.CrewList, error) {
	list := make(model.CrewList)
	var current *record

	for n, line := range lines {
		line = strings.TrimRight(strings.ReplaceAll(line, "\u00a0", " "), " \t\r")
		if !roleRe.MatchString(line) {
			continue
		}

		switch {
		case datedRe.MatchString(line):
			rec, err := parseRecord(line)
			if err != nil {
				return nil, fmt.Errorf("line %d %q: %w", n+1, line, err)
			}
			current = rec
			add(list, current, current.members)
		case contRe.MatchString(line) && current != nil:
			members, err := parseMembers(line)
			if err != nil {
				return nil, fmt.Errorf("line %d %q: %w", n+1, line, err)
			}
			current.members = append(current.members, members...)
			add(list, current, members)
		}
	}
	return list, nil
}

func add(list model.CrewList, rec *record, members []model.CrewMember) {
	for _, flight := range rec.flights {
		key := model.CrewKey{Date: rec.date, Flight: flight}
		list[key] = append(list[key], members...)
	}
}

func parseRecord(line string) (*record, error) {
	m := recordRe.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrBadCrewLine
	}
	date, err := time.Parse("02/01/2006", m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrBadCrewLine, m[1])
	}

	rec := &record{date: date}
	if m[2] == AllFlights {
		rec.flights = []string{""}
	} else {
		for _, flight := range strings.Split(m[2], ",") {
			if !flightRe.MatchString(flight) {
				return nil, fmt.Errorf("%w: invalid flight %q", ErrBadCrewLine, flight)
			}
			rec.flights = append(rec.flights, flight)
		}
	}

	rec.members, err = parseMembers(m[3])
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// parseMembers reads the role-tagged names in s.
func parseMembers(s string) ([]model.CrewMember, error) {
	locs := roleRe.FindAllStringSubmatchIndex(s, -1)
	members := make([]model.CrewMember, 0, len(locs))
	for i, loc := range locs {
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		name := strings.Join(strings.Fields(s[loc[1]:end]), " ")
		if name == "" {
			return nil, fmt.Errorf("%w: missing name for role %s", ErrBadCrewLine, s[loc[2]:loc[3]])
		}
		members = append(members, model.CrewMember{Name: name, Role: s[loc[2]:loc[3]]})
	}
	return members, nil
}
