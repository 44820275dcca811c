package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/aimsledger/internal/model"
)

func TestDateRange(t *testing.T) {
	duties := fixture().Duties

	tests := []struct {
		name       string
		start, end string
		wantFrom   time.Time
		wantTo     time.Time
		wantErr    bool
	}{
		{"whole roster", "", "", day(2021, 10, 21), day(2021, 10, 25), false},
		{"start only", "2021-10-22", "", day(2021, 10, 22), day(2021, 10, 22), false},
		{"end only", "", "2021-10-23", day(2021, 10, 23), day(2021, 10, 23), false},
		{"range", "2021-10-21", "2021-10-23", day(2021, 10, 21), day(2021, 10, 23), false},
		{"bad start", "21/10/2021", "", time.Time{}, time.Time{}, true},
		{"end before start", "2021-10-23", "2021-10-21", time.Time{}, time.Time{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := DateRange(duties, tc.start, tc.end)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFrom, from)
			assert.Equal(t, tc.wantTo, to)
		})
	}

	_, _, err := DateRange(nil, "", "")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	sum := Summarize(fixture().Duties, day(2021, 10, 21), day(2021, 10, 22))
	assert.Equal(t, Summary{
		From:    day(2021, 10, 21),
		To:      day(2021, 10, 22),
		Duties:  2,
		Sectors: 2,
		Block:   6*time.Hour + 38*time.Minute,
		Night:   40 * time.Minute,
		Duty:    8*time.Hour + 12*time.Minute,
	}, sum)

	all := Summarize(fixture().Duties, day(2021, 10, 21), day(2021, 10, 25))
	assert.Equal(t, 4, all.Duties)
	assert.Equal(t, 3, all.Sectors, "ground duties and positioning are not logged")
	assert.Equal(t, 74*time.Minute, all.Night)

	assert.Zero(t, Summarize(nil, day(2021, 10, 21), day(2021, 10, 21)).Duties)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Summarize(fixture().Duties, day(2021, 10, 21), day(2021, 10, 22)))
	assert.Equal(t, "Hours from 2021-10-21 to 2021-10-22\n"+
		"    • Duties: 2 (8:12)\n"+
		"    • Sectors: 2\n"+
		"    • Block: 6:38\n"+
		"    • Night: 0:40\n", buf.String())
}

func TestNight(t *testing.T) {
	sunset, sunrise := ApproxNight(day(2021, 12, 21))
	assert.InDelta(t, float64(15*time.Hour+53*time.Minute), float64(sunset), float64(2*time.Second))
	assert.InDelta(t, float64(8*time.Hour+4*time.Minute), float64(sunrise), float64(2*time.Second))

	assert.True(t, IsNight(at(2021, 6, 21, 23, 0)))
	assert.True(t, IsNight(at(2021, 6, 21, 4, 0)))
	assert.False(t, IsNight(at(2021, 6, 21, 5, 0)))
	assert.False(t, IsNight(at(2021, 12, 21, 12, 0)))

	s := model.Sector{Off: at(2021, 12, 21, 15, 0), On: at(2021, 12, 21, 17, 0)}
	assert.Equal(t, 66*time.Minute, NightDuration(s))
	assert.True(t, NightFlag(s))

	// Midpoint 18:32 on Mar 20 is after that day's sunset but before the
	// sunset of Mar 21, the day of landing.
	late := model.Sector{Off: at(2021, 3, 20, 13, 2), On: at(2021, 3, 21, 0, 2)}
	assert.True(t, IsNight(at(2021, 3, 20, 18, 32)))
	assert.False(t, NightFlag(late))
}
