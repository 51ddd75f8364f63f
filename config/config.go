// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	EnvSampleRate    = "SOUNDSCAPE_SAMPLE_RATE"
	EnvBlockFrames   = "SOUNDSCAPE_BLOCK_FRAMES"
	EnvTapSize       = "SOUNDSCAPE_TAP_SIZE"
	EnvFPS           = "SOUNDSCAPE_FPS"
	EnvAssets        = "SOUNDSCAPE_ASSETS"
	EnvCatalog       = "SOUNDSCAPE_CATALOG"
	EnvManifest      = "SOUNDSCAPE_MANIFEST"
	EnvExportDir     = "SOUNDSCAPE_EXPORT_DIR"
	EnvRedisHost     = "REDIS_HOST"
	EnvRedisPort     = "REDIS_PORT"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDatabase = "REDIS_DATABASE"
)

type Redis struct {
	Host     string
	Port     string
	Password string
	Database int
}

// Enabled reports whether exports should go to Redis.
func (r Redis) Enabled() bool { return r.Host != "" }

type Config struct {
	SampleRate  int
	BlockFrames int
	TapSize     int
	FPS         int

	Assets    string
	Catalog   string
	Manifest  string
	ExportDir string

	Redis Redis
}

// Load reads envFile when it is not empty, fills unset keys with their
// defaults and parses the result from the process environment. Variables
// already set win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %v: %w", envFile, err)
		}
	}

	setEnvDefault(EnvSampleRate, "44100")
	setEnvDefault(EnvBlockFrames, "512")
	setEnvDefault(EnvTapSize, "2048")
	setEnvDefault(EnvFPS, "60")
	setEnvDefault(EnvAssets, "assets")
	setEnvDefault(EnvCatalog, "catalog.yml")
	setEnvDefault(EnvExportDir, "exports")
	setEnvDefault(EnvRedisPort, "6379")
	setEnvDefault(EnvRedisDatabase, "0")

	return parse(os.Getenv)
}

// setEnvDefault set env key=value if not set.
func setEnvDefault(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func parse(getenv func(string) string) (*Config, error) {
	c := &Config{
		Assets:    getenv(EnvAssets),
		Catalog:   getenv(EnvCatalog),
		Manifest:  getenv(EnvManifest),
		ExportDir: getenv(EnvExportDir),
		Redis: Redis{
			Host:     getenv(EnvRedisHost),
			Port:     getenv(EnvRedisPort),
			Password: getenv(EnvRedisPassword),
		},
	}

	var errs []error
	positive := func(key string, dst *int) {
		v, err := strconv.Atoi(getenv(key))
		if err != nil || v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %v=%q", ErrInvalid, key, getenv(key)))
			return
		}
		*dst = v
	}
	positive(EnvSampleRate, &c.SampleRate)
	positive(EnvBlockFrames, &c.BlockFrames)
	positive(EnvTapSize, &c.TapSize)
	positive(EnvFPS, &c.FPS)

	db, err := strconv.Atoi(getenv(EnvRedisDatabase))
	if err != nil || db < 0 {
		errs = append(errs, fmt.Errorf("%w: %v=%q", ErrInvalid, EnvRedisDatabase, getenv(EnvRedisDatabase)))
	}
	c.Redis.Database = db

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}
