// Package client calls a remote calculator API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/C0n0r92/calc2/internal/api"
	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/service"
	"github.com/C0n0r92/calc2/internal/validators"
	"github.com/C0n0r92/calc2/internal/wire"
)

const DefaultTimeout = 10 * time.Second

// Client implements service.Calculator over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusError is a non-success response other than a validation failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote calculator returned %d: %s", e.StatusCode, e.Body)
}

func (c *Client) Calculate(ctx context.Context, in calculations.LoanInput) (*calculations.Result, error) {
	var resp wire.CalculationEnvelope
	if err := c.post(ctx, api.CalculatePath, wire.FromLoanInput(in), &resp); err != nil {
		return nil, err
	}
	return resp.Result.Result(), nil
}

func (c *Client) CompareScenarios(ctx context.Context, in calculations.LoanInput, amounts []float64) ([]calculations.ScenarioResult, error) {
	req := wire.ComparisonRequest{CalculationRequest: wire.FromLoanInput(in)}
	for _, a := range amounts {
		req.ExtraPaymentAmounts = append(req.ExtraPaymentAmounts, wire.NewAmount(a))
	}

	var resp wire.ComparisonEnvelope
	if err := c.post(ctx, api.ComparisonPath, req, &resp); err != nil {
		return nil, err
	}
	return wire.ToScenarios(resp.Scenarios), nil
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call remote calculator: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var env wire.ErrorEnvelope
		if err := json.Unmarshal(raw, &env); err != nil || len(env.Errors) == 0 {
			return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
		}
		return &validators.ValidationError{Fields: env.Errors}
	case resp.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Fallback tries Remote first and recomputes with Local when the remote call
// fails for any reason other than invalid input.
type Fallback struct {
	Remote service.Calculator
	Local  service.Calculator
	Logger *slog.Logger
}

func (f *Fallback) Calculate(ctx context.Context, in calculations.LoanInput) (*calculations.Result, error) {
	result, err := f.Remote.Calculate(ctx, in)
	if err == nil || errors.Is(err, calculations.ErrInvalidInput) {
		return result, err
	}
	f.Logger.WarnContext(ctx, "remote calculation failed, computing locally", "error", err)
	return f.Local.Calculate(ctx, in)
}

func (f *Fallback) CompareScenarios(ctx context.Context, in calculations.LoanInput, amounts []float64) ([]calculations.ScenarioResult, error) {
	results, err := f.Remote.CompareScenarios(ctx, in, amounts)
	if err == nil || errors.Is(err, calculations.ErrInvalidInput) {
		return results, err
	}
	f.Logger.WarnContext(ctx, "remote comparison failed, computing locally", "error", err)
	return f.Local.CompareScenarios(ctx, in, amounts)
}
