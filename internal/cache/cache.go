// Package cache persists detected locations and reference timings in a
// small SQLite database so repeated invocations stay offline.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/api"
	"github.com/smokyabdulrahman/prayer-engine/internal/geo"
	_ "modernc.org/sqlite"
)

const (
	dbFileName     = "cache.db"
	currentVersion = 1
	geoTTL         = 24 * time.Hour
)

// Cache is a SQLite-backed store. It is safe for use by one process.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultDir returns ~/.cache/prayer-times.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "prayer-times"), nil
}

// New opens (or creates) the cache database inside dir. An empty dir means
// DefaultDir.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}
	return open(filepath.Join(dir, dbFileName))
}

// NewMemory creates an in-memory cache for testing.
func NewMemory() (*Cache, error) {
	return open(":memory:")
}

func open(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	c := &Cache{db: db, now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	var version int
	if err := c.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	const ddl = `
	CREATE TABLE IF NOT EXISTS geolocation (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		latitude     REAL NOT NULL,
		longitude    REAL NOT NULL,
		city         TEXT NOT NULL DEFAULT '',
		country      TEXT NOT NULL DEFAULT '',
		country_code TEXT NOT NULL DEFAULT '',
		timezone     TEXT NOT NULL DEFAULT '',
		cached_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reference_timings (
		key       TEXT PRIMARY KEY,
		date      TEXT NOT NULL,
		payload   TEXT NOT NULL,
		cached_at TEXT NOT NULL
	);`
	if _, err := c.db.Exec(ddl); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	_, err := c.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

// LoadGeo returns the cached location, or nil when there is none or it is
// older than 24 hours.
func (c *Cache) LoadGeo() *geo.Location {
	var (
		loc      geo.Location
		cachedAt string
	)
	err := c.db.QueryRow(`
		SELECT latitude, longitude, city, country, country_code, timezone, cached_at
		FROM geolocation WHERE id = 1`,
	).Scan(&loc.Latitude, &loc.Longitude, &loc.City, &loc.Country, &loc.CountryCode, &loc.Timezone, &cachedAt)
	if err != nil {
		return nil
	}

	at, err := time.Parse(time.RFC3339, cachedAt)
	if err != nil || c.now().Sub(at) > geoTTL {
		return nil
	}
	return &loc
}

// SaveGeo replaces the cached location.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	if loc == nil {
		return errors.New("nil location")
	}
	_, err := c.db.Exec(`
		INSERT INTO geolocation (id, latitude, longitude, city, country, country_code, timezone, cached_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			city = excluded.city,
			country = excluded.country,
			country_code = excluded.country_code,
			timezone = excluded.timezone,
			cached_at = excluded.cached_at`,
		loc.Latitude, loc.Longitude, loc.City, loc.Country, loc.CountryCode, loc.Timezone,
		c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save geolocation: %w", err)
	}
	return nil
}

// cacheKey hashes every input that changes a reference response.
func cacheKey(req api.Request) string {
	raw := fmt.Sprintf("%s|%s|%.6f|%.6f|%s|%s|%s",
		req.Date.Format("2006-01-02"),
		req.Date.Location(),
		req.Location.Latitude, req.Location.Longitude,
		req.Convention.Name, req.School, req.Offsets,
	)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

// LoadReference returns a previously saved Al Adhan response for req, or nil.
// Reference timings for a past or future date never change, so they do not
// expire.
func (c *Cache) LoadReference(req api.Request) *api.Response {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM reference_timings WHERE key = ?`, cacheKey(req)).Scan(&payload)
	if err != nil {
		return nil
	}

	var resp api.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil
	}
	return &resp
}

// SaveReference stores resp as the answer for req.
func (c *Cache) SaveReference(req api.Request, resp *api.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal reference timings: %w", err)
	}
	_, err = c.db.Exec(`
		INSERT INTO reference_timings (key, date, payload, cached_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		cacheKey(req), req.Date.Format("2006-01-02"), string(data), c.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save reference timings: %w", err)
	}
	return nil
}
