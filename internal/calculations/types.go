package calculations

import "time"

// PaymentFrequency is how often the borrower pays.
type PaymentFrequency string

const (
	Monthly  PaymentFrequency = "monthly"
	Biweekly PaymentFrequency = "biweekly"
)

// DefaultPMIRate is the yearly PMI rate, in percent, used when the caller
// does not provide one.
const DefaultPMIRate = 0.5

// DefaultScenarioAmounts are the extra payment amounts compared when the
// caller does not ask for specific ones.
var DefaultScenarioAmounts = []float64{50, 100, 200, 500}

// LoanInput describes one loan. Rates are percentages per year (6.5 means
// 6.5%). Zero dates mean "not provided".
type LoanInput struct {
	LoanAmount            float64
	InterestRate          float64
	LoanTermYears         int
	ExtraPayment          float64
	ExtraPaymentStartsNow bool
	PaymentFrequency      PaymentFrequency
	OneTimePayment        float64
	OneTimePaymentDate    time.Time
	PurchaseDate          time.Time
	DownPayment           float64
	HomeValue             float64
	PMIRate               float64
	Currency              string
	CurrentAge            int
}

// PeriodEntry is one row of the amortization ledger.
type PeriodEntry struct {
	Month               int
	Payment             float64
	Principal           float64
	Interest            float64
	Balance             float64
	PMI                 float64
	CumulativeInterest  float64
	CumulativePrincipal float64
}

// PaymentBreakdown summarises a computed schedule. MonthlyPayment is always
// a monthly-equivalent figure, also for biweekly loans.
type PaymentBreakdown struct {
	MonthlyPayment float64
	Principal      float64
	TotalInterest  float64
	TotalPayment   float64
	PayoffMonths   int
	Savings        float64
	PMIMonths      int
	PMIAmount      float64
}

// Result is everything ComputeSchedule produces for one input.
type Result struct {
	Breakdown           PaymentBreakdown
	Schedule            []PeriodEntry
	MonthsSincePurchase int
	CurrentBalance      float64

	// Converged is false when the simulation hit the safety cap before the
	// balance reached zero. The schedule then runs SafetyCapPeriods past the
	// scheduled term, so a monthly loan reports Breakdown.PayoffMonths of
	// term*12 + SafetyCapPeriods. RemainingBalance holds what was left at the cap.
	Converged        bool
	RemainingBalance float64
}

// ScenarioResult compares one extra payment amount against the same loan
// without extra payments.
type ScenarioResult struct {
	ExtraPayment  float64
	MonthsSaved   int
	InterestSaved float64
	NewPayoffTime int
}
