package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// sectorSummary strips Src so expectations stay readable.
type sectorSummary struct {
	Name, From, To string
	Off, On        time.Time
	Positioning    bool
}

func summarise(sectors []model.Sector) []sectorSummary {
	out := make([]sectorSummary, 0, len(sectors))
	for _, s := range sectors {
		out = append(out, sectorSummary{s.Name, s.From, s.To, s.Off, s.On, s.Positioning})
	}
	return out
}

func column(d time.Time, cells ...string) model.Column {
	return model.Column{Date: d, Cells: cells}
}

func extract(t *testing.T, cols ...model.Column) Extraction {
	t.Helper()
	days := make([]Day, 0, len(cols))
	for _, col := range cols {
		days = append(days, Tokenize(col))
	}
	return Sectors(Assemble(days))
}

func TestSectors_Empty(t *testing.T) {
	ex := Sectors(nil)
	assert.Empty(t, ex.Sectors)
	assert.Empty(t, ex.Diagnostics)
}

func TestSectors_Standard(t *testing.T) {
	ex := extract(t,
		column(date(2021, 10, 21), "6245", "05:30", "06:34", "BRS", "FNC", "09:45"),
		column(date(2021, 10, 22), "6246", "10:32", "FNC", "BRS", "13:59", "14:29"),
	)

	assert.Empty(t, ex.Diagnostics)
	assert.Equal(t, []sectorSummary{
		{"6245", "BRS", "FNC", at(2021, 10, 21, 6, 34), at(2021, 10, 21, 9, 45), false},
		{"6246", "FNC", "BRS", at(2021, 10, 22, 10, 32), at(2021, 10, 22, 13, 59), false},
	}, summarise(ex.Sectors))
	assert.Equal(t, []time.Time{
		at(2021, 10, 21, 5, 30), at(2021, 10, 21, 6, 34), at(2021, 10, 21, 9, 45),
	}, model.Block(ex.Sectors[0].Src).Times())
}

func TestSectors_ExtraCodesAndPositioning(t *testing.T) {
	ex := extract(t,
		column(date(2019, 9, 11),
			"l", "6189", "05:20", "06:46", "BRS", "PSA", "08:46", "",
			"TAXI", "13:45", "13:45", "*PSA", "LGW", "16:30"),
	)

	assert.Empty(t, ex.Diagnostics)
	assert.Equal(t, []sectorSummary{
		{"6189", "BRS", "PSA", at(2019, 9, 11, 6, 46), at(2019, 9, 11, 8, 46), false},
		{"TAXI", "PSA", "LGW", at(2019, 9, 11, 13, 45), at(2019, 9, 11, 16, 30), true},
	}, summarise(ex.Sectors))
}

func TestSectors_AcrossMidnight(t *testing.T) {
	ex := extract(t,
		column(date(2021, 5, 17), "SBY", "22:00"),
		column(date(2021, 5, 18), "02:00", "", "6046", "21:25", "21:35", "PMI", "(A320)"),
		column(date(2021, 5, 19), "BRS", "23:55", "00:25"),
	)

	assert.Empty(t, ex.Diagnostics)
	assert.Equal(t, []sectorSummary{
		{"SBY", "", "", at(2021, 5, 17, 22, 0), at(2021, 5, 18, 2, 0), false},
		{"6046", "PMI", "BRS", at(2021, 5, 18, 21, 35), at(2021, 5, 18, 23, 55), false},
	}, summarise(ex.Sectors))

	// The drag-over correction is applied to the source tokens too.
	assert.Equal(t, []time.Time{
		at(2021, 5, 18, 21, 25), at(2021, 5, 18, 21, 35),
		at(2021, 5, 18, 23, 55), at(2021, 5, 19, 0, 25),
	}, model.Block(ex.Sectors[1].Src).Times())
}

func TestSectors_DragOver(t *testing.T) {
	d := date(2021, 5, 18)

	t.Run("arrival stamped a day late", func(t *testing.T) {
		ex := extract(t,
			column(d, "6134", "20:00", "EFL", "(320)"),
			column(d.AddDate(0, 0, 1), "BRS", "23:32", "00:02"),
		)
		require.Len(t, ex.Sectors, 1)
		assert.Equal(t, at(2021, 5, 18, 20, 0), ex.Sectors[0].Off)
		assert.Equal(t, at(2021, 5, 18, 23, 32), ex.Sectors[0].On)
	})

	t.Run("arrival after midnight stamped on departure day", func(t *testing.T) {
		block := model.Block{
			model.Label("6046", d),
			model.Time(at(2021, 5, 18, 23, 0)),
			model.Time(at(2021, 5, 18, 23, 55)),
			model.Label("PMI", d),
			model.Label("BRS", d),
			model.Time(at(2021, 5, 18, 0, 25)),
		}
		ex := Sectors([]model.Block{block, endGuard(date(2021, 5, 19))})
		require.Len(t, ex.Sectors, 1)
		assert.Equal(t, at(2021, 5, 18, 23, 55), ex.Sectors[0].Off)
		assert.Equal(t, at(2021, 5, 19, 0, 25), ex.Sectors[0].On)
	})
}

func TestSectors_Quasi(t *testing.T) {
	ex := extract(t,
		column(date(2019, 10, 27), "OPCV", "18:30", "22:30", "23:30"),
		column(date(2019, 10, 28), "LIPC", "17:00", "18:30", "22:30", "23:30", "", "M"),
		column(date(2019, 10, 29), "ESBY", "06:15", "14:15"),
	)

	assert.Empty(t, ex.Diagnostics)
	assert.Equal(t, []sectorSummary{
		{"OPCV", "", "", at(2019, 10, 27, 22, 30), at(2019, 10, 27, 23, 30), false},
		{"LIPC", "", "", at(2019, 10, 28, 18, 30), at(2019, 10, 28, 22, 30), false},
		{"ESBY", "", "", at(2019, 10, 29, 6, 15), at(2019, 10, 29, 14, 15), false},
	}, summarise(ex.Sectors))
}

func TestSectors_RosterEdges(t *testing.T) {
	t.Run("sector runs off the end", func(t *testing.T) {
		ex := extract(t,
			column(date(2021, 5, 17), "02:00"),
			column(date(2021, 5, 18), "6046", "21:25", "21:35", "PMI", "(A320)"),
		)
		assert.Empty(t, ex.Diagnostics)
		assert.Equal(t, []sectorSummary{
			{model.Placeholder, "", "", at(2021, 5, 17, 0, 0), at(2021, 5, 17, 2, 0), false},
			{"6046", "PMI", model.Placeholder, at(2021, 5, 18, 21, 35), at(2021, 5, 19, 0, 0), false},
		}, summarise(ex.Sectors))
	})

	t.Run("standby runs off the end", func(t *testing.T) {
		ex := extract(t,
			column(date(2021, 5, 17), "02:00"),
			column(date(2021, 5, 18), "SBY", "21:25"),
		)
		assert.Empty(t, ex.Diagnostics)
		assert.Equal(t, []sectorSummary{
			{model.Placeholder, "", "", at(2021, 5, 17, 0, 0), at(2021, 5, 17, 2, 0), false},
			{"SBY", "", "", at(2021, 5, 18, 21, 25), at(2021, 5, 19, 0, 0), false},
		}, summarise(ex.Sectors))
	})

	t.Run("drag-over on the first day", func(t *testing.T) {
		ex := extract(t, column(date(2019, 5, 17), "BRS", "23:45", "00:15"))
		assert.Empty(t, ex.Diagnostics)
		assert.Equal(t, []sectorSummary{
			{"BRS", "", "", at(2019, 5, 16, 23, 45), at(2019, 5, 17, 0, 15), false},
		}, summarise(ex.Sectors))
	})
}

func TestSectors_QuasiDragOverShiftsReport(t *testing.T) {
	ex := extract(t, column(date(2021, 5, 17), "SIM", "21:00", "22:00", "02:00", "02:30"))
	require.Len(t, ex.Sectors, 1)
	sim := ex.Sectors[0]
	assert.Equal(t, at(2021, 5, 16, 22, 0), sim.Off)
	assert.Equal(t, at(2021, 5, 17, 2, 0), sim.On)
	assert.Equal(t, []time.Time{
		at(2021, 5, 16, 21, 0), at(2021, 5, 16, 22, 0), at(2021, 5, 17, 2, 0), at(2021, 5, 17, 2, 30),
	}, model.Block(sim.Src).Times())

	duties, err := Duties(ex.Sectors, 0)
	require.NoError(t, err)
	require.Len(t, duties, 1)
	assert.Equal(t, at(2021, 5, 16, 21, 0), duties[0].Start)
	assert.Equal(t, at(2021, 5, 17, 2, 30), duties[0].Finish)
}

func TestSectors_Unparseable(t *testing.T) {
	d1, d2 := date(2021, 6, 1), date(2021, 6, 2)
	ex := extract(t,
		column(d1, "SBY", "10:00"),
		column(d2, "ESBY", "06:00", "14:00", "", "SIM", "01:00", "02:00", "03:00", "04:00", "05:00"),
	)

	assert.Equal(t, []sectorSummary{
		{"ESBY", "", "", at(2021, 6, 2, 6, 0), at(2021, 6, 2, 14, 0), false},
	}, summarise(ex.Sectors))
	require.Len(t, ex.Diagnostics, 2)
	assert.Equal(t, d1, ex.Diagnostics[0].Date)
	assert.Equal(t, "SBY", ex.Diagnostics[0].Block[0].Text)
	assert.Equal(t, "SIM", ex.Diagnostics[1].Block[0].Text)
	assert.Equal(t, UnparseableBlock, ex.Diagnostics[1].Message)
}

func TestSectors_OnNeverBeforeOff(t *testing.T) {
	ex := extract(t,
		column(date(2017, 5, 27), "6133", "14:55", "16:01", "BRS", "EFL", "19:23", "", "6134", "20:00", "EFL", "(320)"),
		column(date(2017, 5, 28), "BRS", "23:32", "00:02", "", "TAXI", "13:15", "13:15", "*BRS", "XWS", "16:45",
			"", "LOEV", "18:15", "22:15", "", "TAXI", "23:15", "*XWS", "MAN", "23:45", "23:45"),
	)
	require.NotEmpty(t, ex.Sectors)
	for _, s := range ex.Sectors {
		assert.False(t, s.On.Before(s.Off), "%s: on %s before off %s", s.Name, s.On, s.Off)
		assert.Equal(t, s.From == "", s.To == "", "%s: airports must be both set or both empty", s.Name)
	}
}
