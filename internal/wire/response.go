package wire

import (
	"github.com/C0n0r92/calc2/internal/calculations"
)

// PeriodRow is one amortization row.
type PeriodRow struct {
	Month               int     `json:"month"`
	Payment             float64 `json:"payment"`
	Principal           float64 `json:"principal"`
	Interest            float64 `json:"interest"`
	Balance             float64 `json:"balance"`
	PMI                 float64 `json:"pmi"`
	CumulativeInterest  float64 `json:"cumulative_interest"`
	CumulativePrincipal float64 `json:"cumulative_principal"`
}

// ResultResponse is the calculation summary. Interest repeats
// TotalInterest for clients that read the shorter name.
type ResultResponse struct {
	MonthlyPayment      float64     `json:"monthly_payment"`
	Principal           float64     `json:"principal"`
	Interest            float64     `json:"interest"`
	TotalPayment        float64     `json:"total_payment"`
	TotalInterest       float64     `json:"total_interest"`
	PayoffMonths        int         `json:"payoff_months"`
	Savings             float64     `json:"savings"`
	PMIMonths           int         `json:"pmi_months"`
	PMIAmount           float64     `json:"pmi_amount"`
	Amortization        []PeriodRow `json:"amortization"`
	MonthsSincePurchase int         `json:"months_since_purchase"`
	CurrentBalance      float64     `json:"current_balance"`
	Converged           bool        `json:"converged"`
	RemainingBalance    float64     `json:"remaining_balance,omitempty"`
}

// ScenarioResponse is one compared extra payment amount.
type ScenarioResponse struct {
	ExtraPayment  float64 `json:"extra_payment"`
	MonthsSaved   int     `json:"months_saved"`
	InterestSaved float64 `json:"interest_saved"`
	NewPayoffTime int     `json:"new_payoff_time"`
}

// CalculationEnvelope is the body of a calculate response.
type CalculationEnvelope struct {
	Result ResultResponse `json:"result"`
}

// ComparisonEnvelope is the body of a scenario comparison response.
type ComparisonEnvelope struct {
	Scenarios []ScenarioResponse `json:"scenarios"`
}

// ErrorEnvelope carries per-field validation messages.
type ErrorEnvelope struct {
	Errors map[string]string `json:"errors"`
}

func FromResult(r *calculations.Result) ResultResponse {
	rows := make([]PeriodRow, len(r.Schedule))
	for i, e := range r.Schedule {
		rows[i] = PeriodRow(e)
	}
	b := r.Breakdown
	return ResultResponse{
		MonthlyPayment:      b.MonthlyPayment,
		Principal:           b.Principal,
		Interest:            b.TotalInterest,
		TotalPayment:        b.TotalPayment,
		TotalInterest:       b.TotalInterest,
		PayoffMonths:        b.PayoffMonths,
		Savings:             b.Savings,
		PMIMonths:           b.PMIMonths,
		PMIAmount:           b.PMIAmount,
		Amortization:        rows,
		MonthsSincePurchase: r.MonthsSincePurchase,
		CurrentBalance:      r.CurrentBalance,
		Converged:           r.Converged,
		RemainingBalance:    r.RemainingBalance,
	}
}

// Result converts a response back into engine output.
func (r ResultResponse) Result() *calculations.Result {
	schedule := make([]calculations.PeriodEntry, len(r.Amortization))
	for i, row := range r.Amortization {
		schedule[i] = calculations.PeriodEntry(row)
	}
	return &calculations.Result{
		Breakdown: calculations.PaymentBreakdown{
			MonthlyPayment: r.MonthlyPayment,
			Principal:      r.Principal,
			TotalInterest:  r.TotalInterest,
			TotalPayment:   r.TotalPayment,
			PayoffMonths:   r.PayoffMonths,
			Savings:        r.Savings,
			PMIMonths:      r.PMIMonths,
			PMIAmount:      r.PMIAmount,
		},
		Schedule:            schedule,
		MonthsSincePurchase: r.MonthsSincePurchase,
		CurrentBalance:      r.CurrentBalance,
		Converged:           r.Converged,
		RemainingBalance:    r.RemainingBalance,
	}
}

func FromScenarios(results []calculations.ScenarioResult) []ScenarioResponse {
	out := make([]ScenarioResponse, len(results))
	for i, s := range results {
		out[i] = ScenarioResponse(s)
	}
	return out
}

// ToScenarios converts responses back into engine output.
func ToScenarios(in []ScenarioResponse) []calculations.ScenarioResult {
	out := make([]calculations.ScenarioResult, len(in))
	for i, s := range in {
		out[i] = calculations.ScenarioResult(s)
	}
	return out
}
