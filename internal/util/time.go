package util

import (
	"fmt"
	"strconv"
	"time"
)

func ParseTimeFlexible(timeStr string) (time.Time, error) {
	// RFC3339 with and without fractional seconds, as written by the gateway
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	// ISO 8601 without a zone, taken as UTC
	t, err = time.Parse("2006-01-02T15:04:05.999999999", timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	// Epoch milliseconds
	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// HourKey is the two-digit UTC hour used as hourly_stats key.
func HourKey(t time.Time) string {
	return t.UTC().Format("15")
}

// DayKey is the UTC date used as daily_stats key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
