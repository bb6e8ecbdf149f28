package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"countdown/internal/ui/preferences"

	"github.com/joho/godotenv"
)

const (
	EnvStartTime  = "COUNTDOWN_START_TIME"
	EnvDurationMS = "COUNTDOWN_DURATION_MS"
	EnvChime      = "COUNTDOWN_CHIME"
)

// LoadEnvFile loads variables from a dotenv file without overriding the
// process environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from COUNTDOWN_* environment variables.
// Unparseable values are reported and leave the setting unchanged.
func ApplyEnv(settings *preferences.Settings) error {
	var errs []error

	if raw, ok := os.LookupEnv(EnvStartTime); ok {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || value < 0 {
			errs = append(errs, fmt.Errorf("%s=%q: invalid start time", EnvStartTime, raw))
		} else {
			settings.StartTime = value
		}
	}
	if raw, ok := os.LookupEnv(EnvDurationMS); ok {
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || value <= 0 {
			errs = append(errs, fmt.Errorf("%s=%q: invalid duration", EnvDurationMS, raw))
		} else {
			settings.Duration = time.Duration(value) * time.Millisecond
		}
	}
	if raw, ok := os.LookupEnv(EnvChime); ok {
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", EnvChime, raw, err))
		} else {
			settings.Chime = value
		}
	}

	return errors.Join(errs...)
}
