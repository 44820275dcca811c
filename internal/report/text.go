package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bryan-cox/aimsledger/internal/airframe"
	"github.com/bryan-cox/aimsledger/internal/model"
)

// Roster writes one line per duty:
//
//	21/10/2021 05:30-09:45 BRS-FNC 3:11/4:15
//
// giving local start and finish, the route, and block/duty hours.
func Roster(out io.Writer, duties []model.Duty, opts Options) {
	loc := opts.location()
	for _, duty := range duties {
		if len(duty.Sectors) == 0 {
			continue
		}
		var block time.Duration
		for _, s := range duty.Sectors {
			if flying(s) {
				block += s.Duration()
			}
		}
		start, finish := duty.Start.In(loc), duty.Finish.In(loc)
		fmt.Fprintf(out, "%s-%s %s %s/%s\n",
			start.Format("02/01/2006 15:04"), finish.Format("15:04"),
			route(duty.Sectors), hm(block), hm(duty.Duration()))
	}
}

// EFJ writes duties in electronic flight journal form, in UTC:
//
//	2021-10-21
//	0530/0945
//	{ CP:Smith John, FO:Jones Anne }
//	G-EZAA:A320
//	BRS/FNC 0634/0945
//
// Crew and airframe lines are only repeated when they change. Sectors
// flown mostly at night are suffixed " n". Duties are separated by a blank
// line.
func EFJ(out io.Writer, r *model.Roster, opts Options) {
	first := true
	for _, duty := range r.Duties {
		if len(duty.Sectors) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(out)
		}
		first = false

		start, finish := duty.Start.UTC(), duty.Finish.UTC()
		fmt.Fprintln(out, start.Format("2006-01-02"))
		comment := ""
		if len(duty.Sectors) == 1 && duty.Sectors[0].Quasi() {
			comment = " #" + duty.Sectors[0].Name
		}
		fmt.Fprintf(out, "%s/%s%s\n", start.Format("1504"), finish.Format("1504"), comment)

		var lastCrew, lastReg string
		for _, s := range duty.Sectors {
			if !flying(s) {
				continue
			}
			if tags := crewTags(r.Crew, s); len(tags) > 0 {
				if c := "{ " + strings.Join(tags, ", ") + " }"; c != lastCrew {
					fmt.Fprintln(out, c)
					lastCrew = c
				}
			}
			if af, ok := opts.Airframes[airframe.FlightID(s)]; ok && af.Reg != "" && af.Reg != lastReg {
				typ := af.Type
				if typ == "" {
					typ = model.Placeholder
				}
				fmt.Fprintf(out, "%s:%s\n", af.Reg, typ)
				lastReg = af.Reg
			}
			night := ""
			if NightFlag(s) {
				night = " n"
			}
			fmt.Fprintf(out, "%s/%s %s/%s%s\n", s.From, s.To,
				s.Off.UTC().Format("1504"), s.On.UTC().Format("1504"), night)
		}
	}
}
