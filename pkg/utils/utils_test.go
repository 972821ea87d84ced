package utils

import (
	"math"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{
			name:  "round to 2 decimals",
			input: 123.456789,
			want:  123.46,
		},
		{
			name:  "already 2 decimals",
			input: 123.45,
			want:  123.45,
		},
		{
			name:  "integer",
			input: 123.0,
			want:  123.0,
		},
		{
			name:  "half cent rounds away from zero",
			input: 1.005,
			want:  1.01,
		},
		{
			name:  "negative",
			input: -42.125,
			want:  -42.13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Round2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound2NonFinite(t *testing.T) {
	if !math.IsNaN(Round2(math.NaN())) {
		t.Error("Round2(NaN) should stay NaN")
	}
	if !math.IsInf(Round2(math.Inf(1)), 1) {
		t.Error("Round2(+Inf) should stay +Inf")
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{
			name:  "finite number",
			input: 123.45,
			want:  true,
		},
		{
			name:  "infinity",
			input: math.Inf(1),
			want:  false,
		},
		{
			name:  "negative infinity",
			input: math.Inf(-1),
			want:  false,
		},
		{
			name:  "NaN",
			input: math.NaN(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsFinite(tt.input)
			if got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "two years across a leap day",
			from: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			want: 731,
		},
		{
			name: "clock part ignored",
			from: time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "future date is negative",
			from: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			want: -9,
		},
		{
			name: "calendar date kept in local zone",
			from: time.Date(2025, 3, 8, 22, 0, 0, 0, ny),
			to:   time.Date(2025, 3, 10, 1, 0, 0, 0, ny),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
