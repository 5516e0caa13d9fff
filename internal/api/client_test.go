package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// sampleResponse is the Al Adhan answer for Dhaka on 2026-06-21 under
// Karachi with the standard school.
func sampleResponse() Response {
	return Response{
		Code:   200,
		Status: "OK",
		Data: Data{
			Timings: Timings{
				"Fajr":     "03:44",
				"Sunrise":  "05:12",
				"Dhuhr":    "12:00",
				"Asr":      "15:18",
				"Maghrib":  "18:48",
				"Isha":     "20:16",
				"Midnight": "23:58",
			},
			Date: DateInfo{
				Readable: "21 Jun 2026",
				Hijri: HijriDate{
					Day:   "5",
					Month: HijriMonth{Number: 1, En: "Muḥarram"},
					Year:  "1448",
				},
			},
			Meta: Meta{
				Latitude:  23.8103,
				Longitude: 90.4125,
				Timezone:  "Asia/Dhaka",
				Method:    MethodInfo{ID: 1, Name: "University of Islamic Sciences, Karachi"},
				School:    "STANDARD",
			},
		},
	}
}

func lookup(t *testing.T, name string) prayer.Convention {
	t.Helper()
	c, ok := prayer.Lookup(name)
	if !ok {
		t.Fatalf("convention %q not registered", name)
	}
	return c
}

// newTestClient serves resp and records the last query string.
func newTestClient(t *testing.T, resp any, status int) (*Client, *url.URL) {
	t.Helper()
	var last url.URL
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r.URL
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	c := NewClient()
	c.BaseURL = server.URL
	return c, &last
}

func TestNewClient(t *testing.T) {
	if c := NewClient(); c.BaseURL != "https://api.aladhan.com/v1" || c.httpClient.Timeout == 0 {
		t.Errorf("NewClient() = %+v", c)
	}
}

func TestFetchByCoordinates_Success(t *testing.T) {
	c, last := newTestClient(t, sampleResponse(), http.StatusOK)

	req := Request{
		Date:       time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
		Location:   prayer.Location{Latitude: 23.8103, Longitude: 90.4125},
		Convention: lookup(t, "Karachi"),
		School:     prayer.Hanafi,
	}
	got, err := c.FetchByCoordinates(context.Background(), req)
	if err != nil {
		t.Fatalf("FetchByCoordinates: %v", err)
	}
	if got.Data.Timings["Asr"] != "15:18" || got.Data.Timings["Midnight"] != "23:58" {
		t.Errorf("Timings = %v", got.Data.Timings)
	}
	if h := got.Data.Date.Hijri.Format(); h != "5 Muḥarram 1448 AH" {
		t.Errorf("Hijri = %q", h)
	}

	if last.Path != "/timings/21-06-2026" {
		t.Errorf("path = %q", last.Path)
	}
	q := last.Query()
	for k, want := range map[string]string{
		"latitude":       "23.810300",
		"longitude":      "90.412500",
		"method":         "1",
		"school":         "1",
		"timezonestring": "UTC",
	} {
		if q.Get(k) != want {
			t.Errorf("%s = %q, want %q", k, q.Get(k), want)
		}
	}
	if q.Has("tune") || q.Has("methodSettings") {
		t.Errorf("unexpected params in %q", last.RawQuery)
	}
}

func TestFetchByCoordinates_CustomConvention(t *testing.T) {
	c, last := newTestClient(t, sampleResponse(), http.StatusOK)

	req := Request{
		Date:       time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Convention: lookup(t, "Custom"),
	}
	if _, err := c.FetchByCoordinates(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := last.Query()
	if q.Get("method") != "99" {
		t.Errorf("method = %q, want 99", q.Get("method"))
	}
	if q.Get("methodSettings") != "18,null,18" {
		t.Errorf("methodSettings = %q, want 18,null,18", q.Get("methodSettings"))
	}
	if q.Get("school") != "0" {
		t.Errorf("school = %q, want 0", q.Get("school"))
	}
}

func TestMethodSettings_Interval(t *testing.T) {
	c := prayer.Convention{FajrAngle: 18.5, IshaInterval: 90}
	if got := methodSettings(c); got != "18.5,null,90 min" {
		t.Errorf("methodSettings = %q", got)
	}
}

func TestFetchByCoordinates_Tune(t *testing.T) {
	c, last := newTestClient(t, sampleResponse(), http.StatusOK)

	req := Request{
		Date:       time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Convention: lookup(t, "MWL"),
		Offsets:    prayer.Offsets{prayer.Dhuhr: 1, prayer.Maghrib: -2, prayer.Isha: 3},
	}
	if _, err := c.FetchByCoordinates(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := last.Query().Get("tune"); got != "0,0,0,1,0,-2,0,3,0" {
		t.Errorf("tune = %q, want 0,0,0,1,0,-2,0,3,0", got)
	}
}

func TestFetchByCoordinates_Timezone(t *testing.T) {
	c, last := newTestClient(t, sampleResponse(), http.StatusOK)

	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	req := Request{
		Date:       time.Date(2026, 3, 5, 0, 0, 0, 0, loc),
		Convention: lookup(t, "Karachi"),
	}
	if _, err := c.FetchByCoordinates(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if last.Path != "/timings/05-03-2026" {
		t.Errorf("date format wrong in path: %s (expected DD-MM-YYYY)", last.Path)
	}
	if got := last.Query().Get("timezonestring"); got != "Asia/Dhaka" {
		t.Errorf("timezonestring = %q", got)
	}
}

func TestFetchByCoordinates_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"error": "boom"}, http.StatusInternalServerError)

	_, err := c.FetchByCoordinates(context.Background(), Request{Convention: lookup(t, "MWL")})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status 500 error, got %v", err)
	}
}

func TestFetchByCoordinates_APIErrorCode(t *testing.T) {
	resp := sampleResponse()
	resp.Code = 400
	resp.Status = "Bad Request"
	c, _ := newTestClient(t, resp, http.StatusOK)

	_, err := c.FetchByCoordinates(context.Background(), Request{Convention: lookup(t, "MWL")})
	if err == nil || !strings.Contains(err.Error(), "code=400") {
		t.Errorf("expected API error, got %v", err)
	}
}

func TestFetchByCoordinates_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	c := NewClient()
	c.BaseURL = server.URL

	_, err := c.FetchByCoordinates(context.Background(), Request{Convention: lookup(t, "MWL")})
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestFetchByCoordinates_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1"

	if _, err := c.FetchByCoordinates(context.Background(), Request{Convention: lookup(t, "MWL")}); err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}
