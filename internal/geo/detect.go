// Package geo resolves the user's approximate location from their public IP.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// Location is a detected or configured place.
type Location struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
}

// Coordinates returns the location as engine input.
func (l Location) Coordinates() prayer.Location {
	return prayer.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Mecca is used when no location is configured and detection fails.
var Mecca = Location{
	Latitude:    21.3891,
	Longitude:   39.8579,
	City:        "Mecca",
	Country:     "Saudi Arabia",
	CountryCode: "SA",
	Timezone:    "Asia/Riyadh",
}

// ipAPIResponse is ip-api.com's answer. The location fields share their
// names with Location.
type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Location
}

// geoAPIURL is a variable so tests can point it at an httptest server.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,countryCode,timezone"

const requestTimeout = 5 * time.Second

// DetectLocation asks ip-api.com (no key required) where the caller's
// public IP is. It gives up after five seconds.
func DetectLocation(ctx context.Context) (*Location, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geolocation request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	switch {
	case body.Status != "success":
		return nil, fmt.Errorf("geolocation failed: %s", body.Message)
	case body.Latitude < -90 || body.Latitude > 90 || body.Longitude < -180 || body.Longitude > 180:
		return nil, fmt.Errorf("geolocation returned impossible coordinates %g, %g", body.Latitude, body.Longitude)
	}

	log.Debug().Str("city", body.City).Str("country", body.CountryCode).Str("tz", body.Timezone).Msg("detected location")
	loc := body.Location
	return &loc, nil
}
