package utils

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to cents, half away from zero.
func Round2(value float64) float64 {
	if !IsFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// IsFinite reports whether value is neither NaN nor an infinity.
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// DateOnly drops the clock part of t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from "from" to "to".
// The result is negative when "to" is earlier than "from".
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
