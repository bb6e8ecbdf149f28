package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotANumber indicates text that does not parse to an integral number.
	ErrNotANumber = errors.New("not a number")
	// ErrOutOfRange indicates a number outside the accepted range.
	ErrOutOfRange = errors.New("out of range")
)

// ParseDuration parses a tick period in milliseconds. It must be positive.
func ParseDuration(text string) (int, error) {
	value, err := parseInteger(text)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", text, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("duration %q: %w", text, ErrOutOfRange)
	}
	return value, nil
}

// ParseStartTime parses a countdown length. It must not be negative.
func ParseStartTime(text string) (int, error) {
	value, err := parseInteger(text)
	if err != nil {
		return 0, fmt.Errorf("start time %q: %w", text, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("start time %q: %w", text, ErrOutOfRange)
	}
	return value, nil
}

func parseInteger(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, ErrNotANumber
	}
	if parsed, err := strconv.Atoi(trimmed); err == nil {
		return checkRange(float64(parsed))
	}

	// Integral float spellings such as "500.0" or "1e3".
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, ErrNotANumber
	}
	if parsed != math.Trunc(parsed) {
		return 0, ErrNotANumber
	}
	return checkRange(parsed)
}

func checkRange(value float64) (int, error) {
	if value > math.MaxInt32 || value < math.MinInt32 {
		return 0, ErrOutOfRange
	}
	return int(value), nil
}
