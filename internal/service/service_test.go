package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C0n0r92/calc2/internal/cache"
	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/logging"
	"github.com/C0n0r92/calc2/internal/validators"
)

var fixedNow = time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)

func loan() calculations.LoanInput {
	return calculations.LoanInput{
		LoanAmount:       300000,
		InterestRate:     6.5,
		LoanTermYears:    30,
		PaymentFrequency: calculations.Monthly,
		PurchaseDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		HomeValue:        360000,
		DownPayment:      60000,
		PMIRate:          calculations.DefaultPMIRate,
		Currency:         "USD",
	}
}

type countingCache struct {
	*cache.MemoryCache
	gets, sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.MemoryCache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	return c.MemoryCache.Set(ctx, key, value, ttl)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Close() error { return nil }

func newService(t *testing.T, c cache.Cache, now func() time.Time) *Service {
	t.Helper()
	return New(config.Default(), c, logging.Discard(), WithClock(now))
}

func TestCalculate_MatchesEngine(t *testing.T) {
	svc := newService(t, nil, func() time.Time { return fixedNow })

	got, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)

	want, err := calculations.ComputeSchedule(loan(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 24, got.MonthsSincePurchase)
}

func TestCalculate_UsesCache(t *testing.T) {
	c := &countingCache{MemoryCache: cache.NewMemoryCache()}
	svc := newService(t, c, func() time.Time { return fixedNow })

	first, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)
	second, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)

	assert.Equal(t, 2, c.gets)
	assert.Equal(t, 1, c.sets, "second call should be served from cache")
	assert.Equal(t, first, second)
}

func TestCalculate_CacheKeyIncludesDate(t *testing.T) {
	c := &countingCache{MemoryCache: cache.NewMemoryCache()}
	now := fixedNow
	svc := newService(t, c, func() time.Time { return now })

	first, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)

	now = now.AddDate(0, 2, 0)
	second, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)

	assert.Equal(t, 2, c.sets)
	assert.Greater(t, second.MonthsSincePurchase, first.MonthsSincePurchase)
	assert.Less(t, second.CurrentBalance, first.CurrentBalance)
}

func TestCalculate_BrokenCacheIsNotFatal(t *testing.T) {
	svc := newService(t, brokenCache{}, func() time.Time { return fixedNow })

	result, err := svc.Calculate(context.Background(), loan())
	require.NoError(t, err)
	assert.Equal(t, 360, result.Breakdown.PayoffMonths)
}

func TestCalculate_ValidationError(t *testing.T) {
	svc := newService(t, nil, func() time.Time { return fixedNow })

	in := loan()
	in.LoanAmount = -1
	in.Currency = "XYZ"

	_, err := svc.Calculate(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, calculations.ErrInvalidInput)

	var verr *validators.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "loan_amount")
	assert.Contains(t, verr.Fields, "currency")
}

func TestCompareScenarios(t *testing.T) {
	svc := newService(t, nil, func() time.Time { return fixedNow })

	got, err := svc.CompareScenarios(context.Background(), loan(), nil)
	require.NoError(t, err)
	require.Len(t, got, len(calculations.DefaultScenarioAmounts))

	want, err := calculations.CompareScenarios(loan(), nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCompareScenarios_UsesCache(t *testing.T) {
	c := &countingCache{MemoryCache: cache.NewMemoryCache()}
	svc := newService(t, c, func() time.Time { return fixedNow })

	amounts := []float64{100, 250}
	first, err := svc.CompareScenarios(context.Background(), loan(), amounts)
	require.NoError(t, err)
	second, err := svc.CompareScenarios(context.Background(), loan(), amounts)
	require.NoError(t, err)

	assert.Equal(t, 1, c.sets)
	assert.Equal(t, first, second)
}

func TestCompareScenarios_MergesValidationErrors(t *testing.T) {
	svc := newService(t, nil, func() time.Time { return fixedNow })

	in := loan()
	in.InterestRate = 0

	_, err := svc.CompareScenarios(context.Background(), in, []float64{-1})
	var verr *validators.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "interest_rate")
	assert.Contains(t, verr.Fields, "extra_payment_amounts")
}
