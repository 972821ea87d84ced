package validators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/pkg/utils"
)

// SupportedCurrencies are the currencies the calculator can display.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "CAD", "AUD"}

// ValidationError collects one message per offending field. Field names use
// the snake_case wire names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match validation failures with
// errors.Is(err, calculations.ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return calculations.ErrInvalidInput
}

type collector map[string]string

func (c collector) add(field string, err error) {
	if err != nil {
		if _, seen := c[field]; !seen {
			c[field] = err.Error()
		}
	}
}

// ValidatePositiveNumber checks that value is finite and within
// [minInclusive, maxInclusive].
func ValidatePositiveNumber(value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("must be a finite number")
	}
	if value < minInclusive {
		return fmt.Errorf("must be at least %g", minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("must not exceed %g", maxInclusive)
	}
	return nil
}

// ValidateExclusivePositive checks that value is finite, greater than zero
// and below maxExclusive.
func ValidateExclusivePositive(value, maxExclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("must be a finite number")
	}
	if value <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	if value >= maxExclusive {
		return fmt.Errorf("must be less than %g", maxExclusive)
	}
	return nil
}

// ValidateIntRange checks that value is within [minInclusive, maxInclusive].
func ValidateIntRange(value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("must be between %d and %d", minInclusive, maxInclusive)
	}
	return nil
}

// CheckLoanAmount validates the financed principal.
func CheckLoanAmount(cfg *config.Config, amount float64) error {
	return ValidateExclusivePositive(amount, cfg.MaxLoanAmount)
}

// CheckInterestRate validates the yearly rate in percent.
func CheckInterestRate(cfg *config.Config, rate float64) error {
	return ValidateExclusivePositive(rate, cfg.MaxInterestRate)
}

// CheckLoanTerm validates the term in years.
func CheckLoanTerm(cfg *config.Config, years int) error {
	if years <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	if years >= cfg.MaxTermYears {
		return fmt.Errorf("must be less than %d", cfg.MaxTermYears)
	}
	return nil
}

// CheckPMIRate validates the yearly PMI rate in percent.
func CheckPMIRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber(rate, 0, cfg.MaxPMIRate)
}

// CheckPayment validates a recurring or one-time extra payment.
func CheckPayment(cfg *config.Config, amount float64) error {
	return ValidatePositiveNumber(amount, 0, cfg.MaxLoanAmount)
}

// CheckCurrentAge validates the borrower age. Zero means not provided.
func CheckCurrentAge(age int) error {
	if age == 0 {
		return nil
	}
	return ValidateIntRange(age, 18, 100)
}

// CheckFrequency validates the payment frequency.
func CheckFrequency(f calculations.PaymentFrequency) error {
	if f != calculations.Monthly && f != calculations.Biweekly {
		return fmt.Errorf("must be monthly or biweekly")
	}
	return nil
}

// CheckCurrency validates the display currency.
func CheckCurrency(code string) error {
	for _, c := range SupportedCurrencies {
		if c == code {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(SupportedCurrencies, ", "))
}

// CheckLoanInput validates every field of in and reports all failures at
// once. It returns nil or a *ValidationError.
func CheckLoanInput(cfg *config.Config, in calculations.LoanInput) error {
	errs := collector{}

	errs.add("loan_amount", CheckLoanAmount(cfg, in.LoanAmount))
	errs.add("interest_rate", CheckInterestRate(cfg, in.InterestRate))
	errs.add("loan_term", CheckLoanTerm(cfg, in.LoanTermYears))
	errs.add("extra_payment", CheckPayment(cfg, in.ExtraPayment))
	errs.add("one_time_payment", CheckPayment(cfg, in.OneTimePayment))
	errs.add("pmi_rate", CheckPMIRate(cfg, in.PMIRate))
	errs.add("current_age", CheckCurrentAge(in.CurrentAge))
	errs.add("payment_frequency", CheckFrequency(in.PaymentFrequency))
	errs.add("currency", CheckCurrency(in.Currency))
	errs.add("home_value", ValidateExclusivePositive(in.HomeValue, cfg.MaxLoanAmount*10))
	errs.add("down_payment", ValidatePositiveNumber(in.DownPayment, 0, cfg.MaxLoanAmount*10))
	if in.DownPayment > in.HomeValue && in.HomeValue > 0 {
		errs.add("down_payment", fmt.Errorf("cannot be greater than home value"))
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// CheckScenarioAmounts validates the extra payment amounts of a comparison.
func CheckScenarioAmounts(cfg *config.Config, amounts []float64) error {
	errs := collector{}
	if len(amounts) > cfg.MaxScenarios {
		errs.add("extra_payment_amounts", fmt.Errorf("at most %d amounts allowed", cfg.MaxScenarios))
	}
	for i, a := range amounts {
		if err := CheckPayment(cfg, a); err != nil {
			errs.add("extra_payment_amounts", fmt.Errorf("amount %d %w", i+1, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
