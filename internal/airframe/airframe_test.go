package airframe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-cox/aimsledger/internal/model"
)

func sampleDuties() []model.Duty {
	off := time.Date(2021, 10, 21, 6, 34, 0, 0, time.UTC)
	return []model.Duty{{
		Start:  off.Add(-time.Hour),
		Finish: off.Add(4 * time.Hour),
		Sectors: []model.Sector{
			{Name: "6245", From: "BRS", To: "FNC", Off: off, On: off.Add(3 * time.Hour)},
			{Name: "ESBY", Off: off.Add(4 * time.Hour), On: off.Add(5 * time.Hour)},
		},
	}}
}

func TestFlightID(t *testing.T) {
	s := model.Sector{Name: "6245", Off: time.Date(2021, 10, 21, 6, 34, 0, 0, time.UTC)}
	assert.Equal(t, "20211021T0634F6245", FlightID(s))
}

func TestIDs_SkipsQuasiSectors(t *testing.T) {
	assert.Equal(t, []string{"20211021T0634F6245"}, IDs(sampleDuties()))
}

func TestLookup(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"20211021T0634F6245": ["G-EZAA", "A320"], "bogus": ["only-one"]}`))
	}))
	defer srv.Close()

	airframes := New(srv.URL, time.Second).Lookup(context.Background(), sampleDuties())
	assert.Equal(t, []string{"20211021T0634F6245"}, got.Flights)
	assert.Equal(t, map[string]model.Airframe{
		"20211021T0634F6245": {Reg: "G-EZAA", Type: "A320"},
	}, airframes)
}

func TestLookup_Degrades(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			airframes := New(srv.URL, time.Second).Lookup(context.Background(), sampleDuties())
			require.NotNil(t, airframes)
			assert.Empty(t, airframes)
		})
	}

	t.Run("no url", func(t *testing.T) {
		assert.Empty(t, New("", 0).Lookup(context.Background(), sampleDuties()))
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Empty(t, New(srv.URL, time.Second).Lookup(ctx, sampleDuties()))
	})
}

func TestResolve_LooksUpOnlyUnknownSectors(t *testing.T) {
	duties := sampleDuties()
	back := model.Sector{Name: "6246", From: "FNC", To: "BRS",
		Off: time.Date(2021, 10, 21, 10, 32, 0, 0, time.UTC), On: time.Date(2021, 10, 21, 13, 59, 0, 0, time.UTC)}
	duties[0].Sectors = append(duties[0].Sectors, back)

	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"20211021T1032F6246": ["G-EZBB", "A319"]}`))
	}))
	defer srv.Close()

	r := &model.Roster{
		Duties:    duties,
		Airframes: map[string]model.Airframe{"20211021T0634F6245": {Reg: "G-EZAA", Type: "320"}},
	}
	airframes := New(srv.URL, time.Second).Resolve(context.Background(), r)
	assert.Equal(t, []string{"20211021T1032F6246"}, got.Flights)
	assert.Equal(t, map[string]model.Airframe{
		"20211021T0634F6245": {Reg: "G-EZAA", Type: "320"},
		"20211021T1032F6246": {Reg: "G-EZBB", Type: "A319"},
	}, airframes)

	t.Run("nil client keeps printed registrations", func(t *testing.T) {
		var c *Client
		assert.Equal(t, r.Airframes, c.Resolve(context.Background(), r))
	})
}
