package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/crew"
	"github.com/bryan-cox/aimsledger/internal/model"
)

// CSVHeader is the first record of the logbook CSV.
var CSVHeader = []string{
	"Off Blocks", "On Blocks", "Origin", "Destination", "Registration",
	"Type", "Captain", "Role", "Night", "Crew",
}

// Self is entered as captain when the logbook owner is the captain.
const Self = "Self"

// CSV writes a logbook row for every flying sector. Times are UTC and
// Night is in whole minutes.
func CSV(out io.Writer, r *model.Roster, opts Options) error {
	w := csv.NewWriter(out)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, duty := range r.Duties {
		for _, s := range duty.Sectors {
			if !flying(s) {
				continue
			}
			af := opts.Airframes[airframe.FlightID(s)]
			captain, role := Self, "CP"
			if opts.FirstOfficer {
				captain, role = captainOf(r.Crew.For(s.Off, s.Name)), "FO"
			}
			record := []string{
				s.Off.UTC().Format("2006-01-02 15:04"),
				s.On.UTC().Format("2006-01-02 15:04"),
				s.From,
				s.To,
				af.Reg,
				af.Type,
				captain,
				role,
				strconv.Itoa(int(NightDuration(s).Minutes())),
				strings.Join(crewTags(r.Crew, s), "; "),
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("writing CSV row for %s: %w", s.Name, err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

func captainOf(members []model.CrewMember) string {
	for _, m := range members {
		if m.Role == "CP" {
			return crew.CleanName(m.Name)
		}
	}
	return ""
}
