// Package config loads the selection pipeline's configuration from the
// environment. All knobs have documented defaults; only adapter settings
// such as the database URL are ever required, and only by the adapters that
// use them.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"featurespace/app"
	"featurespace/internal/errors"
	"featurespace/internal/stats"
)

// Config bundles the pipeline configuration with adapter settings
type Config struct {
	Selection app.Config
	Database  DatabaseConfig
	Excel     ExcelConfig
}

// DatabaseConfig holds settings for the postgres metadata store
type DatabaseConfig struct {
	URL   string
	Table string
}

// ExcelConfig holds settings for the excel embedding source
type ExcelConfig struct {
	FilePath      string
	ScoresSheet   string
	VarianceSheet string
}

// Load reads configuration from the environment, consulting a .env file
// when present, and validates it.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	sel := app.DefaultConfig()
	var err error
	if sel.VarianceThreshold, err = envFloat("FS_VARIANCE_THRESHOLD", sel.VarianceThreshold); err != nil {
		return nil, err
	}
	if sel.SigLevel, err = envFloat("FS_SIG_LEVEL", sel.SigLevel); err != nil {
		return nil, err
	}
	if v := os.Getenv("FS_CORRECTION"); v != "" {
		sel.Correction = stats.Correction(v)
	}
	if sel.MaxParallel, err = envInt64("FS_MAX_PARALLEL", sel.MaxParallel); err != nil {
		return nil, err
	}
	if !stats.ValidCorrection(sel.Correction) {
		return nil, errors.ConfigInvalid("FS_CORRECTION: unknown correction method " + string(sel.Correction))
	}

	return &Config{
		Selection: sel,
		Database: DatabaseConfig{
			URL:   os.Getenv("FS_DATABASE_URL"),
			Table: envString("FS_METADATA_TABLE", "cell_metadata"),
		},
		Excel: ExcelConfig{
			FilePath:      os.Getenv("FS_EXCEL_FILE"),
			ScoresSheet:   envString("FS_EXCEL_SCORES_SHEET", "scores"),
			VarianceSheet: envString("FS_EXCEL_VARIANCE_SHEET", "variance"),
		},
	}, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + ": " + err.Error())
	}
	return f, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + ": " + err.Error())
	}
	return n, nil
}
