package calculations

import (
	"fmt"
	"time"
)

// CompareScenarios prices each extra payment amount against the same loan
// with no recurring extra payment. Results follow the order of amounts; a
// nil or empty amounts uses DefaultScenarioAmounts.
//
// The baseline is recomputed for every amount rather than shared, so each
// entry is exactly ComputeSchedule with ExtraPayment set to 0.
func CompareScenarios(in LoanInput, amounts []float64, asOf time.Time) ([]ScenarioResult, error) {
	if len(amounts) == 0 {
		amounts = DefaultScenarioAmounts
	}

	results := make([]ScenarioResult, 0, len(amounts))
	for _, amount := range amounts {
		scenarioInput := in
		scenarioInput.ExtraPayment = amount
		scenario, err := ComputeSchedule(scenarioInput, asOf)
		if err != nil {
			return nil, fmt.Errorf("scenario %.2f: %w", amount, err)
		}

		baseInput := in
		baseInput.ExtraPayment = 0
		base, err := ComputeSchedule(baseInput, asOf)
		if err != nil {
			return nil, fmt.Errorf("baseline for %.2f: %w", amount, err)
		}

		results = append(results, ScenarioResult{
			ExtraPayment:  amount,
			MonthsSaved:   base.Breakdown.PayoffMonths - scenario.Breakdown.PayoffMonths,
			InterestSaved: base.Breakdown.TotalInterest - scenario.Breakdown.TotalInterest,
			NewPayoffTime: scenario.Breakdown.PayoffMonths,
		})
	}
	return results, nil
}
