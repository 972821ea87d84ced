package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/wire"
)

// loanFlags are the loan fields settable from the command line. Flags
// override values read from --input.
type loanFlags struct {
	input string

	loanAmount   float64
	interestRate float64
	termYears    int
	extraPayment float64
	startsNow    bool
	frequency    string
	oneTime      float64
	oneTimeDate  string
	purchaseDate string
	downPayment  float64
	homeValue    float64
	pmiRate      float64
	currency     string
	currentAge   int
}

func (f *loanFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.input, "input", "i", "", "Read the loan from a .toml or .json file")
	fs.Float64VarP(&f.loanAmount, "amount", "a", 0, "Loan amount")
	fs.Float64VarP(&f.interestRate, "rate", "r", 0, "Yearly interest rate in percent")
	fs.IntVarP(&f.termYears, "term", "t", 30, "Loan term in years")
	fs.Float64Var(&f.extraPayment, "extra", 0, "Recurring extra payment per month")
	fs.BoolVar(&f.startsNow, "extra-starts-now", false, "Apply the extra payment only from today on")
	fs.StringVar(&f.frequency, "frequency", string(calculations.Monthly), "Payment frequency (monthly, biweekly)")
	fs.Float64Var(&f.oneTime, "one-time", 0, "One-time extra payment")
	fs.StringVar(&f.oneTimeDate, "one-time-date", "", "Date of the one-time payment (YYYY-MM-DD)")
	fs.StringVar(&f.purchaseDate, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	fs.Float64Var(&f.downPayment, "down-payment", 0, "Down payment")
	fs.Float64Var(&f.homeValue, "home-value", 0, "Home value; defaults to amount plus down payment")
	fs.Float64Var(&f.pmiRate, "pmi-rate", calculations.DefaultPMIRate, "Yearly PMI rate in percent")
	fs.StringVar(&f.currency, "currency", wire.DefaultCurrency, "Display currency (USD, EUR, GBP, CAD, AUD)")
	fs.IntVar(&f.currentAge, "age", 0, "Borrower age")
}

// request merges the input file, if any, with the flags the user set.
func (f *loanFlags) request(cmd *cobra.Command) (wire.ComparisonRequest, error) {
	var req wire.ComparisonRequest
	if f.input != "" {
		loaded, err := readRequestFile(f.input)
		if err != nil {
			return req, err
		}
		req = loaded
	}

	fs := cmd.Flags()
	// Amount and rate have no usable default and stay unset unless given.
	setAmount := func(name string, dst *wire.Amount, v float64, hasDefault bool) {
		if fs.Changed(name) || (!dst.Valid && hasDefault) {
			*dst = wire.NewAmount(v)
		}
	}

	setAmount("amount", &req.LoanAmount, f.loanAmount, false)
	setAmount("rate", &req.InterestRate, f.interestRate, false)
	setAmount("term", &req.LoanTerm, float64(f.termYears), true)
	setAmount("extra", &req.ExtraPayment, f.extraPayment, true)
	setAmount("one-time", &req.OneTimePayment, f.oneTime, true)
	setAmount("down-payment", &req.DownPayment, f.downPayment, true)
	setAmount("pmi-rate", &req.PMIRate, f.pmiRate, true)
	setAmount("home-value", &req.HomeValue, f.homeValue, false)
	if fs.Changed("age") {
		req.CurrentAge = wire.NewAmount(float64(f.currentAge))
	}
	if fs.Changed("extra-starts-now") {
		req.ExtraPaymentStartsNow = wire.Flag(f.startsNow)
	}
	if fs.Changed("frequency") || req.PaymentFrequency == "" {
		req.PaymentFrequency = f.frequency
	}
	if fs.Changed("currency") || req.Currency == "" {
		req.Currency = f.currency
	}

	for name, dst := range map[string]*wire.Date{
		"purchase-date": &req.PurchaseDate,
		"one-time-date": &req.OneTimePaymentDate,
	} {
		if !fs.Changed(name) {
			continue
		}
		d, err := parseFlagDate(fs.Lookup(name).Value.String())
		if err != nil {
			return req, fmt.Errorf("--%s: %w", name, err)
		}
		*dst = d
	}
	return req, nil
}

func parseFlagDate(s string) (wire.Date, error) {
	if strings.TrimSpace(s) == "" {
		return wire.Date{}, nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return wire.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return wire.NewDate(t), nil
}

func readRequestFile(path string) (wire.ComparisonRequest, error) {
	var req wire.ComparisonRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &req); err != nil {
			return req, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		req, _, err = wire.DecodeComparison(data)
		if err != nil {
			return req, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return req, fmt.Errorf("unsupported input format %q, use .toml or .json", filepath.Ext(path))
	}
	return req, nil
}
