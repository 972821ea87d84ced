package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C0n0r92/calc2/internal/calculations"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value    float64
		currency string
		want     string
	}{
		{1234567.8, "USD", "$1,234,568"},
		{999.4, "EUR", "€999"},
		{0, "GBP", "£0"},
		{-2500, "CAD", "-C$2,500"},
		{42, "CHF", "CHF 42"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.value, tt.currency))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,896.20", FormatMoney(1896.2041, "USD"))
	assert.Equal(t, "A$0.50", FormatMoney(0.5, "AUD"))
	assert.Equal(t, "$1.01", FormatMoney(1.005, "USD"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "6.50%", FormatPercent(6.5))
	assert.Equal(t, "0.13%", FormatPercent(0.125001))
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:   "0mo",
		-3:  "0mo",
		8:   "8mo",
		12:  "1y",
		304: "25y 4mo",
		360: "30y",
	}
	for months, want := range tests {
		assert.Equal(t, want, FormatDuration(months), "months=%d", months)
	}
}

func sampleResult(t *testing.T) *calculations.Result {
	t.Helper()
	in := calculations.LoanInput{
		LoanAmount:       300000,
		InterestRate:     6.5,
		LoanTermYears:    30,
		ExtraPayment:     200,
		PaymentFrequency: calculations.Monthly,
		HomeValue:        360000,
		PMIRate:          calculations.DefaultPMIRate,
		Currency:         "USD",
	}
	r, err := calculations.ComputeSchedule(in, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestYearlyRows(t *testing.T) {
	r := sampleResult(t)
	years := YearlyRows(r.Schedule)

	wantYears := (r.Breakdown.PayoffMonths + 11) / 12
	require.Len(t, years, wantYears)

	var principal float64
	for i, y := range years {
		assert.Equal(t, i+1, y.Year)
		principal += y.Principal
	}
	assert.InDelta(t, 300000, principal, 0.02)
	assert.InDelta(t, 0, years[len(years)-1].Balance, 0.01)
	assert.Equal(t, r.Schedule[11].Balance, years[0].Balance)
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleResult(t), "USD")

	assert.Contains(t, out, "Mortgage summary")
	assert.Contains(t, out, "$1,896.20")
	assert.Contains(t, out, "$300,000")
	assert.Contains(t, out, "Extra payments save")
}

func TestRenderSummary_NotConverged(t *testing.T) {
	r := sampleResult(t)
	r.Converged = false
	r.RemainingBalance = 1234.5

	out := RenderSummary(r, "USD")
	assert.Contains(t, out, "remaining balance $1,234.50")
}

func TestRenderSchedule(t *testing.T) {
	r := sampleResult(t)

	full := RenderSchedule(r.Schedule, "USD", false)
	assert.Contains(t, full, "Principal")
	assert.GreaterOrEqual(t, strings.Count(full, "\n"), len(r.Schedule))

	yearly := RenderSchedule(r.Schedule, "USD", true)
	assert.Contains(t, yearly, "Year")
	assert.Less(t, strings.Count(yearly, "\n"), strings.Count(full, "\n"))
}

func TestRenderScenarios(t *testing.T) {
	out := RenderScenarios([]calculations.ScenarioResult{
		{ExtraPayment: 100, MonthsSaved: 40, InterestSaved: 45000, NewPayoffTime: 320},
	}, "GBP")

	assert.Contains(t, out, "£100/mo")
	assert.Contains(t, out, "3y 4mo")
	assert.Contains(t, out, "£45,000")
	assert.Contains(t, out, "26y 8mo")

	assert.Contains(t, RenderScenarios(nil, "USD"), "No scenarios")
}
