// Package airframe looks up the registration and type of the aircraft that
// flew each sector of a roster.
package airframe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bryan-cox/aimsledger/internal/model"
)

// DefaultTimeout bounds a lookup when none is configured.
const DefaultTimeout = 10 * time.Second

// Client talks to a registration lookup service. The service accepts
// {"flights": [id, ...]} and answers {id: [registration, type], ...}.
type Client struct {
	URL  string
	HTTP *http.Client
}

type request struct {
	Flights []string `json:"flights"`
}

// New returns a Client for url. A zero timeout selects DefaultTimeout.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// FlightID is the key the lookup service uses for a sector: the scheduled
// off-blocks time followed by "F" and the flight number.
func FlightID(s model.Sector) string {
	return s.Off.UTC().Format("20060102T1504") + "F" + s.Name
}

// IDs returns the lookup keys for every flying sector in duties.
func IDs(duties []model.Duty) []string {
	var ids []string
	for _, duty := range duties {
		for _, s := range duty.Sectors {
			if s.Quasi() {
				continue
			}
			ids = append(ids, FlightID(s))
		}
	}
	return ids
}

// Fetch asks the service for the airframes of the given flight ids.
func (c *Client) Fetch(ctx context.Context, ids []string) (map[string]model.Airframe, error) {
	body, err := json.Marshal(request{Flights: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airframes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airframe lookup returned status %d", resp.StatusCode)
	}

	var raw map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	airframes := make(map[string]model.Airframe, len(raw))
	for id, pair := range raw {
		if len(pair) != 2 {
			slog.Warn("ignoring malformed airframe entry", "flight", id, "value", pair)
			continue
		}
		airframes[id] = model.Airframe{Reg: pair[0], Type: pair[1]}
	}
	return airframes, nil
}

// Lookup returns the airframes flown in duties. Any failure is logged and
// yields an empty map, as does a client without a URL.
func (c *Client) Lookup(ctx context.Context, duties []model.Duty) map[string]model.Airframe {
	return c.lookup(ctx, IDs(duties))
}

// Resolve returns the airframes of r. Registrations printed in the document
// are used as they are; only the remaining flying sectors are looked up.
func (c *Client) Resolve(ctx context.Context, r *model.Roster) map[string]model.Airframe {
	airframes := make(map[string]model.Airframe)
	var missing []string
	for _, id := range IDs(r.Duties) {
		if af, ok := r.Airframes[id]; ok {
			airframes[id] = af
			continue
		}
		missing = append(missing, id)
	}
	for id, af := range c.lookup(ctx, missing) {
		airframes[id] = af
	}
	return airframes
}

func (c *Client) lookup(ctx context.Context, ids []string) map[string]model.Airframe {
	if c == nil || c.URL == "" || len(ids) == 0 {
		return map[string]model.Airframe{}
	}

	airframes, err := c.Fetch(ctx, ids)
	if err != nil {
		slog.Warn("failed to look up airframes", "url", c.URL, "flights", len(ids), "error", err)
		return map[string]model.Airframe{}
	}
	return airframes
}
