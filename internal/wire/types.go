package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/C0n0r92/calc2/pkg/utils"
)

// Amount is an optional number that arrives either as a JSON number or as
// a numeric string. Empty strings and null leave it unset.
type Amount struct {
	decimal.NullDecimal
}

// NewAmount returns a set Amount holding v.
func NewAmount(v float64) Amount {
	return Amount{decimal.NewNullDecimal(decimal.NewFromFloat(v))}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == `""` || string(trimmed) == "null" {
		a.Valid = false
		return nil
	}
	return a.NullDecimal.UnmarshalJSON(trimmed)
}

// UnmarshalTOML accepts TOML integers, floats and numeric strings.
func (a *Amount) UnmarshalTOML(v any) error {
	switch n := v.(type) {
	case int64:
		*a = Amount{decimal.NewNullDecimal(decimal.NewFromInt(n))}
	case float64:
		*a = NewAmount(n)
	case string:
		if strings.TrimSpace(n) == "" {
			a.Valid = false
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return err
		}
		*a = Amount{decimal.NewNullDecimal(d)}
	default:
		return fmt.Errorf("expected a number, got %T", v)
	}
	return nil
}

// Float returns the value, or def when unset.
func (a Amount) Float(def float64) float64 {
	if !a.Valid {
		return def
	}
	return a.Decimal.InexactFloat64()
}

// Date is a calendar date sent as YYYY-MM-DD or RFC 3339. Null and empty
// strings leave it unset.
type Date struct {
	time.Time
}

// NewDate returns the Date of t, or an unset Date for the zero time.
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{utils.DateOnly(t)}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return utils.DateOnly(t), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.DateOnly))
}

// UnmarshalTOML accepts native TOML dates and date strings.
func (d *Date) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case time.Time:
		d.Time = utils.DateOnly(t)
		return nil
	case string:
		parsed, err := parseDate(t)
		if err != nil {
			return err
		}
		d.Time = parsed
		return nil
	default:
		return fmt.Errorf("expected a date, got %T", v)
	}
}

// Flag is a boolean that also accepts "true" and "false" strings.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(strings.ToLower(string(bytes.TrimSpace(data))), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
