// Package api is a small client for the Al Adhan prayer times API, used to
// cross-check locally computed times.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// customMethod is Al Adhan's method ID for caller-supplied angles.
const customMethod = 99

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL defaults to the Al Adhan API. Tests point it at httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// Request describes one day at one place, expressed the same way the
// local engine is configured.
type Request struct {
	Date       time.Time
	Location   prayer.Location
	Convention prayer.Convention
	School     prayer.School
	Offsets    prayer.Offsets
}

// FetchByCoordinates fetches timings for req.Date at req.Location.
func (c *Client) FetchByCoordinates(ctx context.Context, req Request) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, req.Date.Format("02-01-2006"))
	return c.doRequest(ctx, endpoint, req.params())
}

func (r Request) params() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(r.Location.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(r.Location.Longitude, 'f', 6, 64))
	params.Set("school", strconv.Itoa(int(r.School)))

	if r.Convention.AladhanMethod >= 0 {
		params.Set("method", strconv.Itoa(r.Convention.AladhanMethod))
	} else {
		params.Set("method", strconv.Itoa(customMethod))
		params.Set("methodSettings", methodSettings(r.Convention))
	}

	if len(r.Offsets) > 0 {
		params.Set("tune", tune(r.Offsets))
	}

	if name := r.Date.Location().String(); name != "Local" && name != "" {
		params.Set("timezonestring", name)
	}
	return params
}

// methodSettings encodes "fajr,maghrib,isha"; Maghrib is always sunset here.
func methodSettings(c prayer.Convention) string {
	isha := strconv.FormatFloat(c.IshaAngle, 'f', -1, 64)
	if c.IshaInterval > 0 {
		isha = fmt.Sprintf("%d min", c.IshaInterval)
	}
	return strconv.FormatFloat(c.FajrAngle, 'f', -1, 64) + ",null," + isha
}

// tune encodes offsets in Al Adhan's order:
// Imsak,Fajr,Sunrise,Dhuhr,Asr,Maghrib,Sunset,Isha,Midnight.
func tune(o prayer.Offsets) string {
	vals := []int{
		0,
		o[prayer.Fajr],
		o[prayer.Sunrise],
		o[prayer.Dhuhr],
		o[prayer.Asr],
		o[prayer.Maghrib],
		0,
		o[prayer.Isha],
		0,
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()
	log.Debug().Str("url", u.Redacted()).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("al adhan request")

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	out := &Response{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if out.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", out.Code, out.Status)
	}
	return out, nil
}
