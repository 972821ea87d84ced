package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/C0n0r92/calc2/internal/calculations"
	"github.com/C0n0r92/calc2/internal/service"
	"github.com/C0n0r92/calc2/internal/validators"
	"github.com/C0n0r92/calc2/internal/wire"
)

const maxBodyBytes = 1 << 20

// MortgageHandler serves the calculation endpoints.
type MortgageHandler struct {
	calc   service.Calculator
	logger *slog.Logger
}

func NewMortgageHandler(calc service.Calculator, logger *slog.Logger) *MortgageHandler {
	return &MortgageHandler{calc: calc, logger: logger}
}

func (h *MortgageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	body, ok := readPost(w, r)
	if !ok {
		return
	}

	req, style, err := wire.DecodeCalculation(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	in, err := req.LoanInput()
	if err != nil {
		h.writeError(w, style, err)
		return
	}

	result, err := h.calc.Calculate(r.Context(), in)
	if err != nil {
		h.writeError(w, style, err)
		return
	}

	writeStyled(w, http.StatusOK, style, wire.CalculationEnvelope{Result: wire.FromResult(result)})
}

func (h *MortgageHandler) ScenarioComparison(w http.ResponseWriter, r *http.Request) {
	body, ok := readPost(w, r)
	if !ok {
		return
	}

	req, style, err := wire.DecodeComparison(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	in, err := req.LoanInput()
	if err != nil {
		h.writeError(w, style, err)
		return
	}
	amounts, err := req.Amounts()
	if err != nil {
		h.writeError(w, style, err)
		return
	}

	results, err := h.calc.CompareScenarios(r.Context(), in, amounts)
	if err != nil {
		h.writeError(w, style, err)
		return
	}

	writeStyled(w, http.StatusOK, style, wire.ComparisonEnvelope{Scenarios: wire.FromScenarios(results)})
}

func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func readPost(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	return body, true
}

// writeError maps validation failures to 422 and everything else to 500.
func (h *MortgageHandler) writeError(w http.ResponseWriter, style wire.Style, err error) {
	var verr *validators.ValidationError
	switch {
	case errors.As(err, &verr):
		writeStyled(w, http.StatusUnprocessableEntity, style, wire.ErrorEnvelope{Errors: verr.Fields})
	case errors.Is(err, calculations.ErrInvalidInput):
		writeStyled(w, http.StatusUnprocessableEntity, style, wire.ErrorEnvelope{Errors: map[string]string{"base": err.Error()}})
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeStyled(w http.ResponseWriter, status int, style wire.Style, v any) {
	body, err := wire.Encode(v, style)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode response"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
