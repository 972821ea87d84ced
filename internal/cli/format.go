// Package cli formats and renders calculator results for the terminal.
package cli

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/C0n0r92/calc2/pkg/utils"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "C$",
	"AUD": "A$",
}

var printer = message.NewPrinter(language.English)

func symbol(currency string) string {
	if s, ok := currencySymbols[currency]; ok {
		return s
	}
	return currency + " "
}

// FormatCurrency formats whole currency units with grouping.
// e.g., 1234567.8 USD -> "$1,234,568"
func FormatCurrency(v float64, currency string) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + symbol(currency) + printer.Sprintf("%d", -n)
	}
	return symbol(currency) + printer.Sprintf("%d", n)
}

// FormatMoney formats a value with cents, rounding half away from zero.
// e.g., 1896.2 USD -> "$1,896.20"
func FormatMoney(v float64, currency string) string {
	v = utils.Round2(v)
	if v < 0 {
		return "-" + symbol(currency) + printer.Sprintf("%.2f", -v)
	}
	return symbol(currency) + printer.Sprintf("%.2f", v)
}

// FormatPercent formats a rate already expressed in percent.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatDuration formats a month count as years and months.
// e.g., 304 -> "25y 4mo", 360 -> "30y", 8 -> "8mo"
func FormatDuration(months int) string {
	if months <= 0 {
		return "0mo"
	}
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return fmt.Sprintf("%dmo", rest)
	case rest == 0:
		return fmt.Sprintf("%dy", years)
	default:
		return fmt.Sprintf("%dy %dmo", years, rest)
	}
}
