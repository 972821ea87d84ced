package calculations

import (
	"fmt"
	"math"

	"github.com/C0n0r92/calc2/pkg/utils"
)

const (
	// BalanceTolerance is the balance under which a loan counts as paid off.
	BalanceTolerance = 0.01

	// SafetyCapPeriods is how far past the scheduled term the simulation may
	// run before giving up.
	SafetyCapPeriods = 120

	daysPerMonth    = 30.44
	daysPerBiweekly = 14
	ltvPMIThreshold = 0.8
)

// terms holds the per-loan constants every simulation pass shares.
type terms struct {
	frequency        PaymentFrequency
	periodsPerYear   int
	periodRate       float64
	scheduledPeriods int
	payment          float64
	monthlyPMI       float64
}

func (f PaymentFrequency) periodsPerYear() int {
	if f == Biweekly {
		return 26
	}
	return 12
}

// displayMonth converts a period index into the month shown to users.
func (t terms) displayMonth(period int) int {
	if t.frequency == Biweekly {
		return int(math.Ceil(float64(period) * 12 / 26.0))
	}
	return period
}

// pmiMonths converts a count of PMI periods into months.
func (t terms) pmiMonths(periods int) int {
	if t.frequency == Biweekly {
		return int(math.Ceil(float64(periods) * (12 / 26.0)))
	}
	return periods
}

// monthlyEquivalent scales a per-period payment to a monthly figure.
func (t terms) monthlyEquivalent(payment float64) float64 {
	if t.frequency == Biweekly {
		return payment * 26 / 12
	}
	return payment
}

// perPeriodExtra spreads a monthly extra payment over the payment periods.
func (t terms) perPeriodExtra(extra float64) float64 {
	if t.frequency == Biweekly {
		return extra / 2
	}
	return extra
}

// periodsFromMonths converts elapsed months to elapsed payment periods.
func (t terms) periodsFromMonths(months int) int {
	if t.frequency == Biweekly {
		return months * 26 / 12
	}
	return months
}

// LevelPayment returns the fixed per-period payment. The amount is always
// derived from the monthly annuity over termYears*12 months; biweekly loans
// pay half of it every period.
func LevelPayment(principal, annualRatePercent float64, termYears int, frequency PaymentFrequency) float64 {
	r := annualRatePercent / 100 / 12
	n := float64(termYears * 12)
	factor := math.Pow(1+r, n)
	payment := principal * (r * factor) / (factor - 1)
	if frequency == Biweekly {
		return payment / 2
	}
	return payment
}

func newTerms(in LoanInput) (terms, error) {
	if in.LoanAmount <= 0 || in.InterestRate <= 0 || in.LoanTermYears <= 0 || in.HomeValue <= 0 {
		return terms{}, fmt.Errorf("%w: loan amount, interest rate, term and home value must be positive", ErrInvalidInput)
	}

	frequency := in.PaymentFrequency
	if frequency != Biweekly {
		frequency = Monthly
	}
	ppy := frequency.periodsPerYear()

	t := terms{
		frequency:        frequency,
		periodsPerYear:   ppy,
		periodRate:       in.InterestRate / 100 / float64(ppy),
		scheduledPeriods: in.LoanTermYears * ppy,
		payment:          LevelPayment(in.LoanAmount, in.InterestRate, in.LoanTermYears, frequency),
	}
	if !utils.IsFinite(t.payment) || !utils.IsFinite(t.periodRate) || t.payment <= 0 {
		return terms{}, fmt.Errorf("%w: payment is not a finite positive number", ErrInvalidInput)
	}

	// PMI is priced once from the original principal, and only for loans
	// that start above the LTV threshold.
	if in.LoanAmount/in.HomeValue > ltvPMIThreshold {
		t.monthlyPMI = in.LoanAmount * (in.PMIRate / 100) / 12
	}
	return t, nil
}
