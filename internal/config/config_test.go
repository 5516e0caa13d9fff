package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	d := Defaults()

	assert.Equal(t, prayer.DefaultConvention, d.Convention)
	require.NotNil(t, d.School)
	assert.Equal(t, prayer.Standard, *d.School)
	assert.Equal(t, "24h", d.TimeFormat)
	assert.False(t, d.HasLocation())
	assert.Empty(t, d.Timezone)
	assert.Empty(t, d.Offsets)
}

func TestPaths(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/srv/xdg")

		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/srv/xdg", "prayer-times"), dir)

		path, err := Path()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/srv/xdg", "prayer-times", "config.json"), path)
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "prayer-times"), dir)
	})
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("dhaka", func(t *testing.T) {
		cfg, err := LoadFrom(writeFile(t, `{
  "city": "Dhaka",
  "country": "BD",
  "latitude": 23.8103,
  "longitude": 90.4125,
  "timezone": "Asia/Dhaka",
  "convention": "Karachi",
  "school": "hanafi",
  "offsets": {"Dhuhr": 1, "Maghrib": 1, "Isha": 1},
  "time_format": "12h"
}`))
		require.NoError(t, err)

		assert.Equal(t, "Dhaka", cfg.City)
		assert.Equal(t, "BD", cfg.Country)
		assert.InDelta(t, 23.8103, cfg.Latitude, 1e-9)
		assert.InDelta(t, 90.4125, cfg.Longitude, 1e-9)
		assert.Equal(t, "Asia/Dhaka", cfg.Timezone)
		assert.Equal(t, "Karachi", cfg.Convention)
		require.NotNil(t, cfg.School)
		assert.Equal(t, prayer.Hanafi, *cfg.School)
		assert.Equal(t, prayer.Offsets{prayer.Dhuhr: 1, prayer.Maghrib: 1, prayer.Isha: 1}, cfg.Offsets)
		assert.Equal(t, "12h", cfg.TimeFormat)
	})

	t.Run("standard school is not unset", func(t *testing.T) {
		cfg, err := LoadFrom(writeFile(t, `{"school": "standard"}`))
		require.NoError(t, err)
		require.NotNil(t, cfg.School)
		assert.Equal(t, prayer.Standard, cfg.SchoolOrDefault(prayer.Hanafi))
	})

	for name, body := range map[string]string{
		"malformed":      "{bad json",
		"unknown school": `{"school": "jafari"}`,
		"unknown offset": `{"offsets": {"Witr": 3}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSaveTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "prayer-times")
	path := filepath.Join(dir, "config.json")

	original := &Config{
		City:       "Makkah",
		Country:    "SA",
		Latitude:   21.3891,
		Longitude:  39.8579,
		Timezone:   "Asia/Riyadh",
		Convention: "UmmAlQura",
		Offsets:    prayer.Offsets{prayer.Maghrib: -2},
		TimeFormat: "12h",
		Prayers:    "Fajr,Dhuhr,Asr,Maghrib,Isha",
		CacheDir:   "/var/cache/prayer-times",
	}
	school := prayer.Standard
	original.School = &school
	require.NoError(t, original.SaveTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])
	assert.True(t, json.Valid(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	for _, k := range ValidKeys {
		want, _ := original.Get(k)
		got, _ := loaded.Get(k)
		assert.Equal(t, want, got, k)
	}

	// Overwrite in place.
	loaded.City = "Jeddah"
	require.NoError(t, loaded.SaveTo(path))
	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Jeddah", again.City)
}

func TestSaveAndReset(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, (&Config{City: "Dhaka"}).Save())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", cfg.City)

	require.NoError(t, Reset())
	path, _ := Path()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, Reset(), "resetting twice")
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		stored     string // what Get returns afterwards
		wantErr    bool
	}{
		{key: "city", value: "Dhaka", stored: "Dhaka"},
		{key: "country", value: " bd ", stored: "BD"},
		{key: "latitude", value: "23.8103", stored: "23.8103"},
		{key: "latitude", value: "-90", stored: "-90"},
		{key: "latitude", value: "90.5", wantErr: true},
		{key: "latitude", value: "north", wantErr: true},
		{key: "longitude", value: "180", stored: "180"},
		{key: "longitude", value: "-180.01", wantErr: true},
		{key: "timezone", value: "Asia/Dhaka", stored: "Asia/Dhaka"},
		{key: "timezone", value: "Mars/Olympus_Mons", wantErr: true},
		{key: "convention", value: "ummalqura", stored: "UmmAlQura"},
		{key: "convention", value: "Tehran", wantErr: true},
		{key: "school", value: "hanafi", stored: "hanafi"},
		{key: "school", value: "1", stored: "hanafi"},
		{key: "school", value: "standard", stored: "standard"},
		{key: "school", value: "2", wantErr: true},
		{key: "offsets", value: "Dhuhr:1,Maghrib:1,Isha:1", stored: "Dhuhr:1,Maghrib:1,Isha:1"},
		{key: "offsets", value: "Dhuhr=1", wantErr: true},
		{key: "time_format", value: "12h", stored: "12h"},
		{key: "time_format", value: "", wantErr: true},
		{key: "prayers", value: "Fajr,Sunrise,Dhuhr", stored: "Fajr,Sunrise,Dhuhr"},
		{key: "prayers", value: "Fajr,Imsak", wantErr: true},
		{key: "prayers", value: " , ", wantErr: true},
		{key: "cache_dir", value: "/tmp/cache", stored: "/tmp/cache"},
		{key: "method", value: "4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.key)
				assert.Equal(t, &Config{}, cfg, "failed Set changed the config")
				return
			}
			require.NoError(t, err)
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.stored, got)
		})
	}
}

func TestSet_FailureKeepsPreviousValue(t *testing.T) {
	cfg := &Config{Latitude: 23.8103, Offsets: prayer.Offsets{prayer.Isha: 2}}

	assert.Error(t, cfg.Set("latitude", "95"))
	assert.Error(t, cfg.Set("offsets", "Isha:two"))

	assert.InDelta(t, 23.8103, cfg.Latitude, 1e-9)
	assert.Equal(t, prayer.Offsets{prayer.Isha: 2}, cfg.Offsets)
}

func TestGet(t *testing.T) {
	empty := &Config{}
	for _, k := range ValidKeys {
		got, err := empty.Get(k)
		require.NoError(t, err, k)
		assert.Empty(t, got, k)
	}

	_, err := empty.Get("method")
	assert.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	hanafi := prayer.Hanafi

	assert.Equal(t, prayer.Standard, (&Config{}).SchoolOrDefault(prayer.Standard))
	assert.Equal(t, prayer.Hanafi, (&Config{School: &hanafi}).SchoolOrDefault(prayer.Standard))
	assert.Equal(t, "ISNA", (&Config{}).ConventionOrDefault("ISNA"))
	assert.Equal(t, "Egypt", (&Config{Convention: "Egypt"}).ConventionOrDefault("ISNA"))
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(&Config{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	hanafi := prayer.Hanafi
	data, err = json.Marshal(&Config{School: &hanafi, Offsets: prayer.Offsets{prayer.Isha: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"school":"hanafi","offsets":{"Isha":2}}`, string(data))
}
