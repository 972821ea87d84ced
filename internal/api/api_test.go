package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/logging"
	"github.com/C0n0r92/calc2/internal/service"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const loanBody = `{
	"loan_amount": 300000,
	"interest_rate": 6.5,
	"loan_term": 30,
	"purchase_date": "2023-06-01",
	"down_payment": 60000,
	"home_value": 360000
}`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	svc := service.New(cfg, nil, logging.Discard(), service.WithClock(func() time.Time { return fixedNow }))
	srv := NewServer(cfg, svc, logging.Discard())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCalculate_OK(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv.Handler(), CalculatePath, loanBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp struct {
		Result map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(360), resp.Result["payoff_months"])
	assert.Equal(t, float64(24), resp.Result["months_since_purchase"])
	assert.Equal(t, true, resp.Result["converged"])
	assert.Len(t, resp.Result["amortization"], 360)
	assert.InDelta(t, 1896.20, resp.Result["monthly_payment"], 0.01)
}

func TestCalculate_CamelCaseEcho(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"loanAmount": "300000", "interestRate": "6.5", "loanTerm": "30", "homeValue": 360000}`
	w := post(t, srv.Handler(), CalculatePath, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Result, "payoffMonths")
	assert.Contains(t, resp.Result, "monthlyPayment")
	assert.NotContains(t, resp.Result, "payoff_months")
}

func TestCalculate_ValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv.Handler(), CalculatePath, `{"loan_amount": -5, "interest_rate": 6.5, "loan_term": 30, "currency": "JPY"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "loan_amount")
	assert.Contains(t, resp.Errors, "currency")
}

func TestCalculate_MissingFields(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv.Handler(), CalculatePath, `{"loanTerm": 30}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"loanAmount":"is required"`)
}

func TestCalculate_BadJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	w := post(t, srv.Handler(), CalculatePath, `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculate_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, CalculatePath, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestScenarioComparison(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{name: "defaults", body: loanBody, wantCount: 4},
		{name: "flat amounts", body: `{"loan_amount": 300000, "interest_rate": 6.5, "loan_term": 30, "home_value": 360000, "extra_payment_amounts": [100, 300]}`, wantCount: 2},
		{name: "inputs envelope", body: `{"inputs": ` + loanBody + `, "extra_payment_amounts": ["250"]}`, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, srv.Handler(), ComparisonPath, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp struct {
				Scenarios []struct {
					ExtraPayment  float64 `json:"extra_payment"`
					MonthsSaved   int     `json:"months_saved"`
					InterestSaved float64 `json:"interest_saved"`
					NewPayoffTime int     `json:"new_payoff_time"`
				} `json:"scenarios"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Len(t, resp.Scenarios, tt.wantCount)
			for _, s := range resp.Scenarios {
				assert.Positive(t, s.MonthsSaved)
				assert.Positive(t, s.InterestSaved)
				assert.Less(t, s.NewPayoffTime, 360)
			}
		})
	}
}

func TestScenarioComparison_TooManyAmounts(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.MaxScenarios = 2 })

	body := `{"inputs": ` + loanBody + `, "extra_payment_amounts": [1, 2, 3]}`
	w := post(t, srv.Handler(), ComparisonPath, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "extra_payment_amounts")
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.RateLimitCapacity = 2
		cfg.RateLimitWindow = time.Hour
	})

	for i := 0; i < 2; i++ {
		w := post(t, srv.Handler(), CalculatePath, loanBody)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := post(t, srv.Handler(), CalculatePath, loanBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	post(t, srv.Handler(), CalculatePath, loanBody)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mortgage_api_requests_total")
	assert.Contains(t, w.Body.String(), "mortgage_calculations_total")
}

type failingCalculator struct{}

func (failingCalculator) Calculate(context.Context, calculations.LoanInput) (*calculations.Result, error) {
	return nil, errors.New("boom")
}

func (failingCalculator) CompareScenarios(context.Context, calculations.LoanInput, []float64) ([]calculations.ScenarioResult, error) {
	return nil, errors.New("boom")
}

func TestCalculate_InternalError(t *testing.T) {
	h := NewMortgageHandler(failingCalculator{}, logging.Discard())

	w := post(t, http.HandlerFunc(h.Calculate), CalculatePath, loanBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	now := fixedNow
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per client")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(2 * time.Hour)
	rl.cleanup()
	rl.mu.Lock()
	assert.Empty(t, rl.clients)
	rl.mu.Unlock()
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	defer rl.Stop()

	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("a"))
	}
}
