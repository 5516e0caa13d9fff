package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-engine/internal/cache"
	"github.com/smokyabdulrahman/prayer-engine/internal/config"
	"github.com/smokyabdulrahman/prayer-engine/internal/geo"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// Replaced in tests.
var (
	nowFunc        = time.Now
	detectLocation = geo.DetectLocation
)

// session is everything a command needs to compute times, resolved from
// flags, the config file, the cache and IP geolocation in that order.
type session struct {
	cfg *config.Config

	place      string
	country    string
	coords     prayer.Location
	loc        *time.Location
	convention string
	school     prayer.School
	offsets    prayer.Offsets
	events     []prayer.Event
	layout     string

	// now is the current instant in loc; date is the civil day to show.
	now   time.Time
	date  time.Time
	dated bool
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	s := &session{
		cfg:     cfg,
		place:   cfg.City,
		country: cfg.Country,
		layout:  prayer.ClockLayout(cfg.TimeFormat),
		offsets: cfg.Offsets,
		events:  prayer.AllEvents,
	}

	schoolSet := cfg.School != nil
	s.school = cfg.SchoolOrDefault(prayer.Standard)
	if flagWasSet(flags, root, "school") {
		v, err := prayer.ParseSchool(FlagSchool)
		if err != nil {
			return nil, fmt.Errorf("invalid --school %q: must be \"standard\" or \"hanafi\"", FlagSchool)
		}
		s.school, schoolSet = v, true
	}
	if flagWasSet(flags, root, "offsets") {
		v, err := prayer.ParseOffsets(FlagOffsets)
		if err != nil {
			return nil, fmt.Errorf("invalid --offsets: %w", err)
		}
		s.offsets = v
	}
	if cfg.Prayers != "" {
		events, err := prayer.ParseEventList(cfg.Prayers)
		if err != nil {
			return nil, fmt.Errorf("invalid prayers in config: %w", err)
		}
		s.events = events
	}

	tzName := cfg.Timezone
	if cfg.HasLocation() {
		s.coords = prayer.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
		if s.place == "" {
			s.place = fmt.Sprintf("%.4f, %.4f", cfg.Latitude, cfg.Longitude)
		}
	} else {
		g := resolveGeo(cmd.Context(), cfg)
		s.coords = g.Coordinates()
		if s.place == "" {
			s.place = g.City
		}
		if s.country == "" {
			s.country = g.CountryCode
		}
		if tzName == "" {
			tzName = g.Timezone
		}
	}

	s.loc = time.Local
	if tzName != "" {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
		}
		s.loc = loc
	}

	s.convention = cfg.Convention
	if s.convention == "" {
		if s.country != "" {
			conv, school := prayer.Suggest(s.country)
			s.convention = conv
			if !schoolSet {
				s.school = school
			}
			log.Debug().Str("country", s.country).Str("convention", conv).Msg("suggested convention")
		} else {
			s.convention = prayer.DefaultConvention
		}
	}
	conv, ok := prayer.Lookup(s.convention)
	if !ok {
		log.Warn().Str("convention", s.convention).Msgf("unknown convention, using %s", conv.Name)
	}
	s.convention = conv.Name

	s.now = nowFunc().In(s.loc)
	s.date = s.now
	if flagWasSet(flags, root, "date") {
		d, err := time.ParseInLocation("2006-01-02", FlagDate, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", FlagDate)
		}
		s.date, s.dated = d, true
	}

	return s, nil
}

// resolveGeo finds the user's location when none is configured: a cached
// lookup, then IP geolocation, then Mecca.
func resolveGeo(ctx context.Context, cfg *config.Config) geo.Location {
	c, err := openCache(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable")
	} else {
		defer c.Close()
		if g := c.LoadGeo(); g != nil {
			log.Debug().Str("city", g.City).Msg("using cached location")
			return *g
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	g, err := detectLocation(ctx)
	if err != nil {
		log.Warn().Err(err).Msgf("could not detect location, falling back to %s", geo.Mecca.City)
		return geo.Mecca
	}
	log.Debug().Str("city", g.City).Str("country", g.CountryCode).Msg("detected location")

	if c != nil {
		if err := c.SaveGeo(g); err != nil {
			log.Warn().Err(err).Msg("failed to cache location")
		}
	}
	return *g
}

func openCache(cfg *config.Config) (*cache.Cache, error) {
	dir := cfg.CacheDir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.New(dir)
}

// today reports whether the session shows the current civil day.
func (s *session) today() bool {
	y1, m1, d1 := s.date.Date()
	y2, m2, d2 := s.now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// prayerConfig is the engine input for the civil day of date.
func (s *session) prayerConfig(date time.Time) prayer.Config {
	return prayer.Config{
		Location:   s.coords,
		Date:       date.In(s.loc),
		Convention: s.convention,
		School:     s.school,
		Offsets:    s.offsets,
	}
}

// settings is the resolved input echoed in structured output.
type settings struct {
	Place      string          `json:"place" yaml:"place"`
	Location   prayer.Location `json:"location" yaml:"location"`
	Timezone   string          `json:"timezone" yaml:"timezone"`
	Convention string          `json:"convention" yaml:"convention"`
	School     prayer.School   `json:"school" yaml:"school"`
	Offsets    prayer.Offsets  `json:"offsets,omitempty" yaml:"offsets,omitempty"`
}

func (s *session) settings() settings {
	return settings{
		Place:      s.place,
		Location:   s.coords,
		Timezone:   s.loc.String(),
		Convention: s.convention,
		School:     s.school,
		Offsets:    s.offsets,
	}
}
