package roster

import (
	"errors"
	"fmt"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// DefaultMinRest is the shortest gap between sectors that separates two
// duties. Earlier rosters were processed with 8 hours.
const DefaultMinRest = 11 * time.Hour

// ErrUnsorted is returned when sectors are not ordered by Off.
var ErrUnsorted = errors.New("sectors not sorted by off time")

// Duties groups sectors sorted by Off into duties. A new duty starts when the
// gap from the previous sector's On to the next sector's Off is at least
// minRest. A non-positive minRest selects DefaultMinRest.
func Duties(sectors []model.Sector, minRest time.Duration) ([]model.Duty, error) {
	if minRest <= 0 {
		minRest = DefaultMinRest
	}
	for i := 1; i < len(sectors); i++ {
		if sectors[i].Off.Before(sectors[i-1].Off) {
			return nil, fmt.Errorf("sector %d (%s) departs before sector %d (%s): %w",
				i, sectors[i].Name, i-1, sectors[i-1].Name, ErrUnsorted)
		}
	}

	var groups [][]model.Sector
	for i, sector := range sectors {
		if i == 0 || sector.Off.Sub(sectors[i-1].On) >= minRest {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], sector)
	}

	duties := make([]model.Duty, 0, len(groups))
	for _, group := range groups {
		duties = append(duties, duty(group))
	}
	return duties, nil
}

// duty builds the envelope of a group of sectors from the raw times of its
// first and last sectors, so report and debrief times are included.
func duty(sectors []model.Sector) model.Duty {
	first, last := sectors[0], sectors[len(sectors)-1]
	start, finish := first.Off, last.On
	for _, t := range model.Block(first.Src).Times() {
		if t.Before(start) {
			start = t
		}
	}
	for _, t := range model.Block(last.Src).Times() {
		if t.After(finish) {
			finish = t
		}
	}
	for _, s := range sectors {
		if s.On.After(finish) {
			finish = s.On
		}
	}
	return model.Duty{Start: start, Finish: finish, Sectors: sectors}
}
