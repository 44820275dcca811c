// Package model defines the core data structures for aimsledger.
package model

import (
	"fmt"
	"time"
)

// Placeholder is the label used when an identifier or airport is unknown,
// e.g. for sectors that straddle the start or end of the roster period.
const Placeholder = "???"

// TokenKind discriminates the variants of Token.
type TokenKind int

// Token kinds.
const (
	TimeToken TokenKind = iota
	LabelToken
)

func (k TokenKind) String() string {
	switch k {
	case TimeToken:
		return "time"
	case LabelToken:
		return "label"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is the atomic datum produced by tokenizing a roster column. It is
// either a point in time or an opaque label tagged with its column's date.
type Token struct {
	Kind TokenKind
	// Time is set for TimeToken.
	Time time.Time
	// Text and Date are set for LabelToken.
	Text string
	Date time.Time
}

// Time returns a TimeToken for t.
func Time(t time.Time) Token {
	return Token{Kind: TimeToken, Time: t}
}

// Label returns a LabelToken for text found in the column dated date.
func Label(text string, date time.Time) Token {
	return Token{Kind: LabelToken, Text: text, Date: date}
}

// IsTime reports whether the token is a TimeToken.
func (t Token) IsTime() bool { return t.Kind == TimeToken }

// IsLabel reports whether the token is a LabelToken.
func (t Token) IsLabel() bool { return t.Kind == LabelToken }

func (t Token) String() string {
	switch t.Kind {
	case TimeToken:
		return t.Time.Format("2006-01-02T15:04")
	case LabelToken:
		return fmt.Sprintf("%q@%s", t.Text, t.Date.Format("2006-01-02"))
	default:
		return t.Kind.String()
	}
}

// Block is a maximal run of non-blank tokens from one column.
type Block []Token

// HasTime reports whether the block contains at least one TimeToken.
func (b Block) HasTime() bool {
	for _, tok := range b {
		if tok.IsTime() {
			return true
		}
	}
	return false
}

// Times returns the block's time points in order.
func (b Block) Times() []time.Time {
	var times []time.Time
	for _, tok := range b {
		if tok.IsTime() {
			times = append(times, tok.Time)
		}
	}
	return times
}

// Column is one day of the roster grid: the header as printed, the date it
// represents and the cell strings in document order.
type Column struct {
	Header string
	Date   time.Time
	Cells  []string
}

// CrewMember is a named crew member and their role code (CP, FO, PU, FA...).
type CrewMember struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

// Sector is a flight leg or a quasi-duty such as a standby or simulator
// session. Quasi sectors have empty From and To.
type Sector struct {
	Name        string
	From        string
	To          string
	Off         time.Time
	On          time.Time
	Positioning bool
	// Src holds the raw tokens the sector was derived from, including report
	// and duty-end times that are not Off or On.
	Src []Token
}

// Quasi reports whether the sector has no real takeoff and landing.
func (s Sector) Quasi() bool {
	return s.From == "" && s.To == ""
}

// Duration returns the time between Off and On.
func (s Sector) Duration() time.Duration {
	return s.On.Sub(s.Off)
}

// Duty is a group of sectors separated by less than the minimum rest period.
type Duty struct {
	Start   time.Time
	Finish  time.Time
	Sectors []Sector
}

// Duration returns the length of the duty envelope.
func (d Duty) Duration() time.Duration {
	return d.Finish.Sub(d.Start)
}

// AllDayEvent is a day with a single code and no times, e.g. a day off.
type AllDayEvent struct {
	Date time.Time
	Code string
}

// Diagnostic describes a block of the roster that could not be classified.
type Diagnostic struct {
	Date    time.Time
	Block   Block
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %v", d.Date.Format("2006-01-02"), d.Message, []Token(d.Block))
}

// Roster is the fully parsed content of a detailed roster or pilot logbook.
type Roster struct {
	Duties       []Duty
	AllDayEvents []AllDayEvent
	Crew         CrewList
	Diagnostics  []Diagnostic
	// Airframes holds registrations printed in the document itself, keyed
	// like airframe lookups.
	Airframes map[string]Airframe
}

// CrewKey identifies a crew list: a date and optionally a flight number.
// An empty Flight applies to every flight on that date.
type CrewKey struct {
	Date   time.Time
	Flight string
}

// CrewList maps crew list keys to the crew members rostered on them.
type CrewList map[CrewKey][]CrewMember

// For returns the crew for flight on date, falling back to the crew listed
// for all flights of that date.
func (l CrewList) For(date time.Time, flight string) []CrewMember {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if members, ok := l[CrewKey{Date: day, Flight: flight}]; ok {
		return members
	}
	return l[CrewKey{Date: day}]
}

// Airframe is the registration and type of the aircraft that flew a sector.
type Airframe struct {
	Reg  string
	Type string
}

// InputFileError reports that a document is not a recognised roster.
type InputFileError struct {
	Reason string
}

func (e *InputFileError) Error() string {
	return "input file: " + e.Reason
}
