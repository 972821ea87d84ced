// Package service runs mortgage calculations with validation, caching,
// tracing and metrics around the pure engine.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/C0n0r92/calc2/internal/cache"
	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/config"
	"github.com/C0n0r92/calc2/internal/metrics"
	"github.com/C0n0r92/calc2/internal/tracing"
	"github.com/C0n0r92/calc2/internal/validators"
	"github.com/C0n0r92/calc2/pkg/utils"
)

// Calculator is what the API and CLI need from the service.
type Calculator interface {
	Calculate(ctx context.Context, in calculations.LoanInput) (*calculations.Result, error)
	CompareScenarios(ctx context.Context, in calculations.LoanInput, amounts []float64) ([]calculations.ScenarioResult, error)
}

// Service is safe for concurrent use.
type Service struct {
	cfg    *config.Config
	cache  cache.Cache
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of the evaluation date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTracer replaces the package tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// New returns a Service. A nil cache disables caching.
func New(cfg *config.Config, c cache.Cache, logger *slog.Logger, opts ...Option) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	s := &Service{
		cfg:    cfg,
		cache:  c,
		logger: logger,
		tracer: tracing.Tracer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type calculateKey struct {
	Input calculations.LoanInput
	AsOf  string
}

type compareKey struct {
	Input   calculations.LoanInput
	Amounts []float64
	AsOf    string
}

// Calculate validates in and computes its schedule as of today.
func (s *Service) Calculate(ctx context.Context, in calculations.LoanInput) (*calculations.Result, error) {
	const op = metrics.OpCalculate

	ctx, span := s.tracer.Start(ctx, "mortgage.calculate")
	defer span.End()

	asOf := utils.DateOnly(s.now())
	span.SetAttributes(loanAttributes(in, asOf)...)

	if err := validators.CheckLoanInput(s.cfg, in); err != nil {
		return nil, s.fail(span, op, "validation", err)
	}

	key, err := cache.Key("mortgage:calc", calculateKey{Input: in, AsOf: asOf.Format(time.DateOnly)})
	if err != nil {
		return nil, s.fail(span, op, "cache_key", err)
	}

	var result calculations.Result
	if s.lookup(ctx, key, &result) {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		metrics.Calculations.WithLabelValues(op, "success").Inc()
		return &result, nil
	}

	computed, err := calculations.ComputeSchedule(in, asOf)
	if err != nil {
		return nil, s.fail(span, op, "calculation", fmt.Errorf("compute schedule: %w", err))
	}

	metrics.SchedulePeriods.Observe(float64(len(computed.Schedule)))
	if !computed.Converged {
		s.logger.WarnContext(ctx, "schedule did not converge",
			"loan_amount", in.LoanAmount,
			"periods", len(computed.Schedule),
			"remaining_balance", computed.RemainingBalance,
		)
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Float64("monthly_payment", computed.Breakdown.MonthlyPayment),
		attribute.Int("payoff_months", computed.Breakdown.PayoffMonths),
		attribute.Bool("converged", computed.Converged),
	)
	s.store(ctx, key, computed)
	metrics.Calculations.WithLabelValues(op, "success").Inc()
	return computed, nil
}

// CompareScenarios validates in and amounts and prices every amount against
// the loan without recurring extra payments. Empty amounts use the defaults.
func (s *Service) CompareScenarios(ctx context.Context, in calculations.LoanInput, amounts []float64) ([]calculations.ScenarioResult, error) {
	const op = metrics.OpCompare

	ctx, span := s.tracer.Start(ctx, "mortgage.compare_scenarios")
	defer span.End()

	asOf := utils.DateOnly(s.now())
	span.SetAttributes(loanAttributes(in, asOf)...)
	span.SetAttributes(attribute.Int("scenarios", len(amounts)))

	if err := joinValidation(
		validators.CheckLoanInput(s.cfg, in),
		validators.CheckScenarioAmounts(s.cfg, amounts),
	); err != nil {
		return nil, s.fail(span, op, "validation", err)
	}

	key, err := cache.Key("mortgage:compare", compareKey{Input: in, Amounts: amounts, AsOf: asOf.Format(time.DateOnly)})
	if err != nil {
		return nil, s.fail(span, op, "cache_key", err)
	}

	var cached []calculations.ScenarioResult
	if s.lookup(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		metrics.Calculations.WithLabelValues(op, "success").Inc()
		return cached, nil
	}

	results, err := calculations.CompareScenarios(in, amounts, asOf)
	if err != nil {
		return nil, s.fail(span, op, "calculation", fmt.Errorf("compare scenarios: %w", err))
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))
	s.store(ctx, key, results)
	metrics.Calculations.WithLabelValues(op, "success").Inc()
	return results, nil
}

func (s *Service) fail(span trace.Span, op, kind string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	metrics.Calculations.WithLabelValues(op, kind+"_error").Inc()
	metrics.CalculationErrors.WithLabelValues(op, kind).Inc()
	if kind != "validation" {
		s.logger.Error("calculation failed", "operation", op, "error", err)
	}
	return err
}

// lookup reports whether key was found and decoded into dst. Cache errors
// are logged and treated as a miss.
func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.WarnContext(ctx, "cache entry unreadable", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (s *Service) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func loanAttributes(in calculations.LoanInput, asOf time.Time) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("loan_amount", in.LoanAmount),
		attribute.Float64("interest_rate", in.InterestRate),
		attribute.Int("loan_term", in.LoanTermYears),
		attribute.String("payment_frequency", string(in.PaymentFrequency)),
		attribute.Float64("extra_payment", in.ExtraPayment),
		attribute.String("as_of", asOf.Format(time.DateOnly)),
	}
}

// joinValidation merges field errors from several checks into one
// ValidationError.
func joinValidation(errs ...error) error {
	merged := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *validators.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for field, msg := range verr.Fields {
			merged[field] = msg
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return &validators.ValidationError{Fields: merged}
}
