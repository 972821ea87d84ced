// Package wire converts between HTTP/CLI payloads and engine types.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/validators"
)

// DefaultCurrency is used when a request names none.
const DefaultCurrency = "USD"

var (
	maxWhole = decimal.NewFromInt(math.MaxInt32)
	minWhole = decimal.NewFromInt(math.MinInt32)
)

// CalculationRequest is the loan as sent by clients.
type CalculationRequest struct {
	LoanAmount            Amount `json:"loan_amount" toml:"loan_amount"`
	InterestRate          Amount `json:"interest_rate" toml:"interest_rate"`
	LoanTerm              Amount `json:"loan_term" toml:"loan_term"`
	ExtraPayment          Amount `json:"extra_payment" toml:"extra_payment"`
	ExtraPaymentStartsNow Flag   `json:"extra_payment_starts_now" toml:"extra_payment_starts_now"`
	PaymentFrequency      string `json:"payment_frequency" toml:"payment_frequency"`
	OneTimePayment        Amount `json:"one_time_payment" toml:"one_time_payment"`
	OneTimePaymentDate    Date   `json:"one_time_payment_date" toml:"one_time_payment_date"`
	PurchaseDate          Date   `json:"purchase_date" toml:"purchase_date"`
	DownPayment           Amount `json:"down_payment" toml:"down_payment"`
	HomeValue             Amount `json:"home_value" toml:"home_value"`
	PMIRate               Amount `json:"pmi_rate" toml:"pmi_rate"`
	Currency              string `json:"currency" toml:"currency"`
	CurrentAge            Amount `json:"current_age" toml:"current_age"`
}

// ComparisonRequest adds the extra payment amounts to compare.
type ComparisonRequest struct {
	CalculationRequest
	ExtraPaymentAmounts []Amount `json:"extra_payment_amounts" toml:"extra_payment_amounts"`
}

// DecodeError reports a body that is not valid JSON for the request shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "malformed request body: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeCalculation parses a calculation request in either key style.
func DecodeCalculation(body []byte) (CalculationRequest, Style, error) {
	var req CalculationRequest
	norm, style, err := normalize(body)
	if err != nil {
		return req, SnakeCase, &DecodeError{Err: err}
	}
	if err := json.Unmarshal(norm, &req); err != nil {
		return req, style, &DecodeError{Err: err}
	}
	return req, style, nil
}

// DecodeComparison parses a comparison request. The loan fields may be
// flat or nested under "inputs".
func DecodeComparison(body []byte) (ComparisonRequest, Style, error) {
	var req ComparisonRequest
	norm, style, err := normalize(body)
	if err != nil {
		return req, SnakeCase, &DecodeError{Err: err}
	}

	var envelope struct {
		Inputs              json.RawMessage `json:"inputs"`
		ExtraPaymentAmounts []Amount        `json:"extra_payment_amounts"`
	}
	if err := json.Unmarshal(norm, &envelope); err != nil {
		return req, style, &DecodeError{Err: err}
	}

	loan := norm
	if len(envelope.Inputs) > 0 && !bytes.Equal(bytes.TrimSpace(envelope.Inputs), []byte("null")) {
		loan = envelope.Inputs
	}
	if err := json.Unmarshal(loan, &req.CalculationRequest); err != nil {
		return req, style, &DecodeError{Err: err}
	}
	req.ExtraPaymentAmounts = envelope.ExtraPaymentAmounts
	return req, style, nil
}

// FromLoanInput builds the request that describes in.
func FromLoanInput(in calculations.LoanInput) CalculationRequest {
	req := CalculationRequest{
		LoanAmount:            NewAmount(in.LoanAmount),
		InterestRate:          NewAmount(in.InterestRate),
		LoanTerm:              NewAmount(float64(in.LoanTermYears)),
		ExtraPayment:          NewAmount(in.ExtraPayment),
		ExtraPaymentStartsNow: Flag(in.ExtraPaymentStartsNow),
		PaymentFrequency:      string(in.PaymentFrequency),
		OneTimePayment:        NewAmount(in.OneTimePayment),
		OneTimePaymentDate:    NewDate(in.OneTimePaymentDate),
		PurchaseDate:          NewDate(in.PurchaseDate),
		DownPayment:           NewAmount(in.DownPayment),
		HomeValue:             NewAmount(in.HomeValue),
		PMIRate:               NewAmount(in.PMIRate),
		Currency:              in.Currency,
	}
	if in.CurrentAge > 0 {
		req.CurrentAge = NewAmount(float64(in.CurrentAge))
	}
	return req
}

// LoanInput applies defaults and converts r into engine input. Missing
// required fields and non-integral terms or ages are reported as a
// *validators.ValidationError, as are integers too large to convert. Other
// range checks are left to the validators.
func (r CalculationRequest) LoanInput() (calculations.LoanInput, error) {
	fields := map[string]string{}
	require := func(name string, a Amount) {
		if !a.Valid {
			fields[name] = "is required"
		}
	}
	whole := func(name string, a Amount) int {
		if !a.Valid {
			return 0
		}
		if !a.Decimal.IsInteger() {
			fields[name] = "must be a whole number"
			return 0
		}
		if a.Decimal.GreaterThan(maxWhole) || a.Decimal.LessThan(minWhole) {
			fields[name] = "is out of range"
			return 0
		}
		return int(a.Decimal.IntPart())
	}

	require("loan_amount", r.LoanAmount)
	require("interest_rate", r.InterestRate)
	require("loan_term", r.LoanTerm)

	in := calculations.LoanInput{
		LoanAmount:            r.LoanAmount.Float(0),
		InterestRate:          r.InterestRate.Float(0),
		LoanTermYears:         whole("loan_term", r.LoanTerm),
		ExtraPayment:          r.ExtraPayment.Float(0),
		ExtraPaymentStartsNow: bool(r.ExtraPaymentStartsNow),
		PaymentFrequency:      calculations.PaymentFrequency(strings.ToLower(strings.TrimSpace(r.PaymentFrequency))),
		OneTimePayment:        r.OneTimePayment.Float(0),
		OneTimePaymentDate:    r.OneTimePaymentDate.Time,
		PurchaseDate:          r.PurchaseDate.Time,
		DownPayment:           r.DownPayment.Float(0),
		PMIRate:               r.PMIRate.Float(calculations.DefaultPMIRate),
		Currency:              strings.ToUpper(strings.TrimSpace(r.Currency)),
		CurrentAge:            whole("current_age", r.CurrentAge),
	}
	if in.PaymentFrequency == "" {
		in.PaymentFrequency = calculations.Monthly
	}
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}

	// Without a home value the loan is assumed to cover the price less the
	// down payment.
	if r.HomeValue.Valid {
		in.HomeValue = r.HomeValue.Float(0)
	} else {
		in.HomeValue = r.LoanAmount.Decimal.Add(r.DownPayment.Decimal).InexactFloat64()
	}

	if len(fields) > 0 {
		return in, &validators.ValidationError{Fields: fields}
	}
	return in, nil
}

// Amounts returns the requested extra payment amounts. Unset entries are
// reported as errors.
func (r ComparisonRequest) Amounts() ([]float64, error) {
	if len(r.ExtraPaymentAmounts) == 0 {
		return nil, nil
	}
	out := make([]float64, len(r.ExtraPaymentAmounts))
	for i, a := range r.ExtraPaymentAmounts {
		if !a.Valid {
			return nil, &validators.ValidationError{Fields: map[string]string{
				"extra_payment_amounts": fmt.Sprintf("amount %d is empty", i+1),
			}}
		}
		out[i] = a.Decimal.InexactFloat64()
	}
	return out, nil
}
