package roster

import (
	"sort"
	"strings"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// UnparseableBlock is the diagnostic message for blocks that match neither
// the standard nor the quasi sector shape.
const UnparseableBlock = "roster contains unparseable sectors"

const oneDay = 24 * time.Hour

// Extraction holds the sectors found in a stream and a diagnostic for each
// block that could not be classified.
type Extraction struct {
	Sectors     []model.Sector
	Diagnostics []model.Diagnostic
}

// Sectors classifies the blocks of an assembled stream. Standard sectors are
// claimed first, scanning left to right; quasi sectors are then taken from
// the blocks left over. Sectors are returned sorted by Off.
func Sectors(stream []model.Block) Extraction {
	var ex Extraction
	claimed := make([]bool, len(stream))

	for i := 0; i < len(stream); i++ {
		if claimed[i] {
			continue
		}
		var next model.Block
		if i+1 < len(stream) {
			next = stream[i+1]
		}
		sector, used := standardSector(stream[i], next)
		if used == 0 {
			continue
		}
		for j := i; j < i+used; j++ {
			claimed[j] = true
		}
		ex.Sectors = append(ex.Sectors, sector)
		i += used - 1
	}

	guard := len(stream) > 0 && isEndGuard(stream[len(stream)-1])
	for i, block := range stream {
		if claimed[i] || (guard && i == len(stream)-1) {
			continue
		}
		if sector, ok := quasiSector(block); ok {
			claimed[i] = true
			ex.Sectors = append(ex.Sectors, sector)
		}
	}

	for i, block := range stream {
		if claimed[i] || (guard && i == len(stream)-1) {
			continue
		}
		ex.Diagnostics = append(ex.Diagnostics, model.Diagnostic{
			Date:    blockDate(block),
			Block:   block,
			Message: UnparseableBlock,
		})
	}

	sort.SliceStable(ex.Sectors, func(a, b int) bool {
		return ex.Sectors[a].Off.Before(ex.Sectors[b].Off)
	})
	return ex
}

// standardSector tries to read a flying sector starting in block, using next
// when the destination was only recorded after midnight. It returns the
// number of blocks consumed, 0 if block does not hold a standard sector.
//
// The first time followed by a label is taken as (departure, origin); the
// first label followed by a time after that is (destination, arrival). This
// first-match order is relied upon to classify real rosters and must not
// change.
func standardSector(block, next model.Block) (model.Sector, int) {
	origin := -1
	for j := 1; j < len(block); j++ {
		if block[j].IsLabel() && block[j-1].IsTime() {
			origin = j
			break
		}
	}
	if origin < 0 {
		return model.Sector{}, 0
	}

	name := -1
	for j := origin - 2; j >= 0; j-- {
		if block[j].IsLabel() {
			name = j
			break
		}
	}
	if name < 0 {
		return model.Sector{}, 0
	}

	used := 1
	src := append(model.Block(nil), block...)
	dest := destination(block, origin+1)
	if dest < 0 {
		if next == nil {
			return model.Sector{}, 0
		}
		k := destination(next, 0)
		if k < 0 {
			return model.Sector{}, 0
		}
		used = 2
		src = append(src, next...)
		dest = len(block) + k
	}

	off := src[origin-1].Time
	on := src[dest+1].Time
	switch {
	case on.Sub(off) > oneDay:
		on = on.Add(-oneDay)
	case on.Before(off):
		on = on.Add(oneDay)
	}
	src[dest+1] = model.Time(on)

	from := src[origin].Text
	positioning := strings.HasPrefix(from, "*")
	if positioning {
		from = strings.TrimPrefix(from, "*")
	}
	return model.Sector{
		Name:        src[name].Text,
		From:        from,
		To:          src[dest].Text,
		Off:         off,
		On:          on,
		Positioning: positioning,
		Src:         src,
	}, used
}

// destination returns the index of the first label from start onwards that
// is immediately followed by a time, or -1.
func destination(block model.Block, start int) int {
	for k := start; k+1 < len(block); k++ {
		if block[k].IsLabel() && block[k+1].IsTime() {
			return k
		}
	}
	return -1
}

// quasiSector reads a standby, simulator or other ground duty: a label
// followed only by two to four times. With four times the outer two are
// report and debrief, so the inner two bound the duty; otherwise the last
// two do.
func quasiSector(block model.Block) (model.Sector, bool) {
	n := len(block)
	if n < 3 || n > 5 || !block[0].IsLabel() {
		return model.Sector{}, false
	}
	for _, tok := range block[1:] {
		if !tok.IsTime() {
			return model.Sector{}, false
		}
	}

	first := n - 2
	if n == 5 {
		first = 2
	}
	src := append(model.Block(nil), block...)
	off, on := src[first].Time, src[first+1].Time
	if off.After(on) {
		// Report times before off belong to the previous day as well.
		for j := 1; j <= first; j++ {
			if src[j].Time.After(on) {
				src[j] = model.Time(src[j].Time.Add(-oneDay))
			}
		}
		off = src[first].Time
	}
	return model.Sector{
		Name: src[0].Text,
		Off:  off,
		On:   on,
		Src:  src,
	}, true
}

func blockDate(block model.Block) time.Time {
	if len(block) == 0 {
		return time.Time{}
	}
	if block[0].IsLabel() {
		return block[0].Date
	}
	return dayStart(block[0].Time)
}
