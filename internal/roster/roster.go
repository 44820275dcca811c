// Package roster reconstructs duties and sectors from the day columns of an
// AIMS detailed roster. Pilot Logbook reports are handed to package logbook.
//
// Each column is tokenized into blocks of times and labels, the blocks of all
// days are joined into one stream, sectors are picked out of the stream by
// position and token type, and the sectors are finally grouped into duties.
package roster

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bryan-cox/aimsledger/internal/crew"
	"github.com/bryan-cox/aimsledger/internal/grid"
	"github.com/bryan-cox/aimsledger/internal/logbook"
	"github.com/bryan-cox/aimsledger/internal/model"
)

// ErrColumnGap is returned when day columns are not exactly one day apart.
var ErrColumnGap = errors.New("day columns are not consecutive")

// Options control roster parsing.
type Options struct {
	// MinRest separates duties; zero selects DefaultMinRest.
	MinRest time.Duration
}

// Parse reads an AIMS HTML document: a detailed roster, or a Pilot Logbook
// report when the document carries the logbook marker and no schedule table.
// Logbook duties are grouped by the logbook's own rules, so opts does not
// apply to them.
func Parse(r io.Reader, opts Options) (*model.Roster, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing roster HTML: %w", err)
	}
	if logbook.Is(doc) && !strings.Contains(doc.Text(), grid.StartMarker) {
		return logbook.Extract(doc)
	}

	g, err := grid.Extract(doc)
	if err != nil {
		return nil, err
	}
	return FromGrid(g, opts)
}

// ParseString is Parse for an in-memory document.
func ParseString(html string, opts Options) (*model.Roster, error) {
	return Parse(strings.NewReader(html), opts)
}

// FromGrid builds a roster from an already extracted grid.
func FromGrid(g *grid.Grid, opts Options) (*model.Roster, error) {
	r, err := FromColumns(g.Columns, opts)
	if err != nil {
		return nil, err
	}
	r.Crew, err = crew.Parse(g.Lines)
	if err != nil {
		return nil, fmt.Errorf("parsing crew list: %w", err)
	}
	return r, nil
}

// FromColumns runs the duty extraction over consecutive day columns.
func FromColumns(columns []model.Column, opts Options) (*model.Roster, error) {
	days := make([]Day, 0, len(columns))
	var events []model.AllDayEvent
	for i, col := range columns {
		if i > 0 && !dayStart(col.Date).Equal(dayStart(columns[i-1].Date).AddDate(0, 0, 1)) {
			return nil, fmt.Errorf("column %d dated %s: %w", i, col.Date.Format("2006-01-02"), ErrColumnGap)
		}
		day := Tokenize(col)
		if day.Event != nil {
			events = append(events, *day.Event)
		}
		days = append(days, day)
	}

	ex := Sectors(Assemble(days))
	duties, err := Duties(ex.Sectors, opts.MinRest)
	if err != nil {
		return nil, err
	}
	return &model.Roster{
		Duties:       duties,
		AllDayEvents: events,
		Crew:         model.CrewList{},
		Diagnostics:  ex.Diagnostics,
	}, nil
}
