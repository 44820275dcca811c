// Package grid extracts the day-by-day schedule table from an AIMS detailed
// roster HTML document.
package grid

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// Markers delimiting the schedule table.
const (
	StartMarker = "Schedule Details"
	EndMarker   = "Total Hours and Statistics"
)

var (
	fullDateRe  = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
	shortHeadRe = regexp.MustCompile(`^([A-Z][a-z]{2})(\d{2})`)
)

// Grid is the extracted schedule: one column per day plus every text line of
// the document, which holds the crew list.
type Grid struct {
	Columns []model.Column
	Lines   []string
}

// Parse reads an HTML document and extracts its schedule grid.
func Parse(r io.Reader) (*Grid, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing roster HTML: %w", err)
	}
	return Extract(doc)
}

// Extract pulls the schedule grid out of a parsed document. Documents that
// lack the schedule table fail with a *model.InputFileError.
//
// The table starts two rows below the StartMarker row and stops one row
// above the EndMarker row.
func Extract(doc *goquery.Document) (*Grid, error) {
	doc.Find("br").ReplaceWithHtml("\n")

	var rows [][][]string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row [][]string
		tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, cellLines(td.Text()))
		})
		rows = append(rows, row)
	})

	start, end := -1, len(rows)
	for i, row := range rows {
		if start < 0 && rowContains(row, StartMarker) {
			start = i + 2
			continue
		}
		if start >= 0 && rowContains(row, EndMarker) {
			end = i - 1
			break
		}
	}
	if start < 0 {
		return nil, &model.InputFileError{Reason: fmt.Sprintf("%q marker not found", StartMarker)}
	}
	if start >= end {
		return nil, &model.InputFileError{Reason: "schedule table is empty"}
	}

	text := doc.Text()
	year := referenceYear(rows[:start])
	if year == 0 {
		year = firstYear(text)
	}
	columns, err := transpose(rows[start:end], year)
	if err != nil {
		return nil, err
	}
	return &Grid{Columns: columns, Lines: strings.Split(text, "\n")}, nil
}

// transpose turns the schedule rows into day columns. The first row holds
// the day headers. Leading header cells that are not dates are spacers and
// are dropped from every row; a blank header after the first date ends the
// columns.
func transpose(rows [][][]string, year int) ([]model.Column, error) {
	headers := rows[0]
	first := -1
	for i, lines := range headers {
		if _, err := parseHeader(strings.Join(lines, " "), year); err == nil {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, &model.InputFileError{Reason: "schedule table has no day headers"}
	}

	var cols []model.Column
	for _, lines := range headers[first:] {
		header := strings.Join(lines, " ")
		if strings.TrimSpace(header) == "" {
			break
		}
		date, err := parseHeader(header, year)
		if err != nil {
			return nil, &model.InputFileError{Reason: err.Error()}
		}
		if n := len(cols); n > 0 {
			want := cols[n-1].Date.AddDate(0, 0, 1)
			if date.Day() != want.Day() {
				return nil, &model.InputFileError{
					Reason: fmt.Sprintf("column %q does not follow %s", header, cols[n-1].Date.Format("2006-01-02")),
				}
			}
			date = want
		}
		cols = append(cols, model.Column{Header: header, Date: date})
	}

	for _, row := range rows[1:] {
		if len(row) <= first {
			continue
		}
		for i, cell := range row[first:] {
			if i >= len(cols) {
				break
			}
			cols[i].Cells = append(cols[i].Cells, cell...)
		}
	}
	return cols, nil
}

// parseHeader reads a day header such as "21/10/2021 Thu", "21/10/21" or
// "Oct21 Thu". Headers without a year use year.
func parseHeader(header string, year int) (time.Time, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty day header")
	}
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if t, err := time.Parse(layout, fields[0]); err == nil {
			return t, nil
		}
	}
	if m := shortHeadRe.FindStringSubmatch(fields[0]); m != nil && year > 0 {
		t, err := time.Parse("Jan02 2006", fmt.Sprintf("%s%s %d", m[1], m[2], year))
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised day header %q", header)
}

// referenceYear returns the year of the first full date in the row nearest
// above the day headers that has one, usually the roster period.
func referenceYear(rows [][][]string) int {
	for i := len(rows) - 1; i >= 0; i-- {
		var text []string
		for _, cell := range rows[i] {
			text = append(text, cell...)
		}
		if year := firstYear(strings.Join(text, " ")); year > 0 {
			return year
		}
	}
	return 0
}

// firstYear returns the year of the first full date in text, or 0.
func firstYear(text string) int {
	m := fullDateRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	t, err := time.Parse("02/01/2006", m[1])
	if err != nil {
		return 0
	}
	return t.Year()
}

// cellLines splits a cell's text into trimmed lines. An empty cell yields a
// single blank line so that it still separates blocks.
func cellLines(text string) []string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func rowContains(row [][]string, marker string) bool {
	for _, cell := range row {
		for _, line := range cell {
			if line == marker {
				return true
			}
		}
	}
	return false
}
