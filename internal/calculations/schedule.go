package calculations

import (
	"math"
	"time"

	"github.com/C0n0r92/calc2/pkg/utils"
)

// pass configures one run of the period simulation. The current balance
// projection, the zero-extra baseline and the full schedule are all passes
// over the same loop.
type pass struct {
	maxPeriods int

	extra        float64
	extraFrom    int // extra applies to periods > extraFrom; -1 disables it
	oneTime      float64
	oneTimeAt    int // period index of the one-time payment; <= 0 disables it
	homeValue    float64
	chargePMI    bool
	recordLedger bool
}

type passResult struct {
	periods       int
	balance       float64
	totalInterest float64
	totalPMI      float64
	pmiPeriods    int
	ledger        []PeriodEntry
}

func (t terms) simulate(principal float64, p pass) passResult {
	res := passResult{balance: principal}
	if p.recordLedger {
		res.ledger = make([]PeriodEntry, 0, p.maxPeriods)
	}

	var cumInterest, cumPrincipal float64
	for res.balance > BalanceTolerance && res.periods < p.maxPeriods {
		res.periods++
		period := res.periods

		interest := res.balance * t.periodRate
		principalPaid := t.payment - interest
		if p.extraFrom >= 0 && period > p.extraFrom {
			principalPaid += p.extra
		}
		if period == p.oneTimeAt && p.oneTime > 0 {
			principalPaid += p.oneTime
		}
		if principalPaid > res.balance {
			principalPaid = res.balance
		}

		var pmi float64
		if p.chargePMI && res.balance/p.homeValue > ltvPMIThreshold {
			pmi = t.monthlyPMI
		}
		if pmi > 0 {
			res.pmiPeriods++
		}

		res.balance -= principalPaid
		res.totalInterest += interest
		res.totalPMI += pmi
		cumInterest += interest
		cumPrincipal += principalPaid

		if p.recordLedger {
			res.ledger = append(res.ledger, PeriodEntry{
				Month:               t.displayMonth(period),
				Payment:             interest + principalPaid,
				Principal:           principalPaid,
				Interest:            interest,
				Balance:             math.Max(0, res.balance),
				PMI:                 pmi,
				CumulativeInterest:  cumInterest,
				CumulativePrincipal: cumPrincipal,
			})
		}
	}
	return res
}

// MonthsSincePurchase counts 30.44-day months from purchase to asOf, never
// negative. A zero purchase date yields 0.
func MonthsSincePurchase(purchase, asOf time.Time) int {
	if purchase.IsZero() {
		return 0
	}
	months := int(math.Floor(float64(utils.DaysBetween(purchase, asOf)) / daysPerMonth))
	if months < 0 {
		return 0
	}
	return months
}

// oneTimePeriod returns the period in which the one-time payment lands, or
// -1 when the payment is absent or either date is missing.
func (t terms) oneTimePeriod(in LoanInput) int {
	if in.OneTimePayment <= 0 || in.OneTimePaymentDate.IsZero() || in.PurchaseDate.IsZero() {
		return -1
	}
	length := daysPerMonth
	if t.frequency == Biweekly {
		length = daysPerBiweekly
	}
	return int(math.Floor(float64(utils.DaysBetween(in.PurchaseDate, in.OneTimePaymentDate)) / length))
}

// ComputeSchedule runs the full amortization for in as seen on asOf. Only
// the calendar date of asOf matters. The call has no side effects, so equal
// inputs and dates always produce equal results.
func ComputeSchedule(in LoanInput, asOf time.Time) (*Result, error) {
	t, err := newTerms(in)
	if err != nil {
		return nil, err
	}

	months := MonthsSincePurchase(in.PurchaseDate, asOf)
	elapsed := t.periodsFromMonths(months)

	currentBalance := in.LoanAmount
	if months > 0 {
		current := t.simulate(in.LoanAmount, pass{
			maxPeriods: elapsed,
			extraFrom:  -1,
		})
		currentBalance = math.Max(0, current.balance)
	}

	extraFrom := 0
	if in.ExtraPaymentStartsNow {
		extraFrom = elapsed
		if months <= 0 {
			extraFrom = -1
		}
	}
	full := t.simulate(in.LoanAmount, pass{
		maxPeriods:   t.scheduledPeriods + SafetyCapPeriods,
		extra:        t.perPeriodExtra(in.ExtraPayment),
		extraFrom:    extraFrom,
		oneTime:      in.OneTimePayment,
		oneTimeAt:    t.oneTimePeriod(in),
		homeValue:    in.HomeValue,
		chargePMI:    t.monthlyPMI > 0,
		recordLedger: true,
	})

	baseline := t.simulate(in.LoanAmount, pass{
		maxPeriods: t.scheduledPeriods,
		extraFrom:  -1,
	})

	if !utils.IsFinite(full.totalInterest) || !utils.IsFinite(full.balance) {
		return nil, ErrInvalidInput
	}

	converged := full.balance <= BalanceTolerance
	remaining := 0.0
	if !converged {
		remaining = full.balance
	}

	return &Result{
		Breakdown: PaymentBreakdown{
			MonthlyPayment: t.monthlyEquivalent(t.payment),
			Principal:      in.LoanAmount,
			TotalInterest:  full.totalInterest,
			TotalPayment:   in.LoanAmount + full.totalInterest,
			PayoffMonths:   t.displayMonth(full.periods),
			Savings:        baseline.totalInterest - full.totalInterest,
			PMIMonths:      t.pmiMonths(full.pmiPeriods),
			PMIAmount:      full.totalPMI,
		},
		Schedule:            full.ledger,
		MonthsSincePurchase: months,
		CurrentBalance:      currentBalance,
		Converged:           converged,
		RemainingBalance:    remaining,
	}, nil
}
