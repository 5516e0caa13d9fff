package server

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultAddr = ":8080"

// Env is the server's environment-derived settings.
type Env struct {
	Addr        string
	Environment string
	// CORSOrigins lists allowed origins; empty allows any origin.
	CORSOrigins []string
}

// Production reports whether PRAYER_TIMES_ENV is "production".
func (e Env) Production() bool {
	return e.Environment == "production"
}

// LoadEnv reads PRAYER_TIMES_* variables after loading the given dotenv
// files (".env" when none are given). Missing files are skipped; variables
// already set in the process win over file values.
func LoadEnv(files ...string) Env {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Strs("files", files).Msg("no dotenv file")
		} else {
			log.Warn().Err(err).Msg("failed to load dotenv file")
		}
	}

	env := Env{
		Addr:        os.Getenv("PRAYER_TIMES_ADDR"),
		Environment: os.Getenv("PRAYER_TIMES_ENV"),
	}
	if env.Addr == "" {
		env.Addr = defaultAddr
	}
	for _, o := range strings.Split(os.Getenv("PRAYER_TIMES_CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			env.CORSOrigins = append(env.CORSOrigins, o)
		}
	}
	return env
}
