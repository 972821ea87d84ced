package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/C0n0r92/calc2/internal/calculations"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	numberStyle = cellStyle.
			Align(lipgloss.Right)

	borderStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	savingsStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// renderTable draws a rounded table. The first column is left aligned and
// the rest are right aligned.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	return t.String()
}

// RenderSummary renders the headline figures of a calculation.
func RenderSummary(r *calculations.Result, currency string) string {
	b := r.Breakdown
	rows := [][]string{
		{"Monthly payment", FormatMoney(b.MonthlyPayment, currency)},
		{"Principal", FormatCurrency(b.Principal, currency)},
		{"Total interest", FormatCurrency(b.TotalInterest, currency)},
		{"Total payment", FormatCurrency(b.TotalPayment, currency)},
		{"Payoff", FormatDuration(b.PayoffMonths)},
		{"Interest saved", FormatCurrency(b.Savings, currency)},
		{"PMI", FormatCurrency(b.PMIAmount, currency) + " over " + FormatDuration(b.PMIMonths)},
		{"Months since purchase", strconv.Itoa(r.MonthsSincePurchase)},
		{"Current balance", FormatCurrency(r.CurrentBalance, currency)},
	}

	var sb strings.Builder
	sb.WriteString(RenderTitle("Mortgage summary"))
	sb.WriteString("\n")
	sb.WriteString(renderTable([]string{"", "Value"}, rows))
	sb.WriteString("\n")
	if !r.Converged {
		sb.WriteString(warnStyle.Render("Warning: the loan is not paid off within the schedule limit; remaining balance " +
			FormatMoney(r.RemainingBalance, currency)))
		sb.WriteString("\n")
	} else if b.Savings > 0 {
		sb.WriteString(savingsStyle.Render("Extra payments save " + FormatCurrency(b.Savings, currency) + " in interest"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// YearRow aggregates the ledger rows of one loan year.
type YearRow struct {
	Year      int
	Payment   float64
	Principal float64
	Interest  float64
	PMI       float64
	Balance   float64
}

// YearlyRows groups ledger rows by loan year using their display month.
func YearlyRows(schedule []calculations.PeriodEntry) []YearRow {
	var out []YearRow
	for _, e := range schedule {
		year := (e.Month-1)/12 + 1
		if e.Month <= 0 {
			year = 1
		}
		if len(out) == 0 || out[len(out)-1].Year != year {
			out = append(out, YearRow{Year: year})
		}
		y := &out[len(out)-1]
		y.Payment += e.Payment
		y.Principal += e.Principal
		y.Interest += e.Interest
		y.PMI += e.PMI
		y.Balance = e.Balance
	}
	return out
}

// RenderSchedule renders the ledger, or its yearly roll-up when yearly is
// set.
func RenderSchedule(schedule []calculations.PeriodEntry, currency string, yearly bool) string {
	if yearly {
		rows := make([][]string, 0, len(schedule)/12+1)
		for _, y := range YearlyRows(schedule) {
			rows = append(rows, []string{
				strconv.Itoa(y.Year),
				FormatMoney(y.Payment, currency),
				FormatMoney(y.Principal, currency),
				FormatMoney(y.Interest, currency),
				FormatMoney(y.PMI, currency),
				FormatMoney(y.Balance, currency),
			})
		}
		return renderTable([]string{"Year", "Payment", "Principal", "Interest", "PMI", "Balance"}, rows)
	}

	rows := make([][]string, 0, len(schedule))
	for i, e := range schedule {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(e.Month),
			FormatMoney(e.Payment, currency),
			FormatMoney(e.Principal, currency),
			FormatMoney(e.Interest, currency),
			FormatMoney(e.PMI, currency),
			FormatMoney(e.Balance, currency),
		})
	}
	return renderTable([]string{"#", "Month", "Payment", "Principal", "Interest", "PMI", "Balance"}, rows)
}

// RenderScenarios renders a scenario comparison.
func RenderScenarios(results []calculations.ScenarioResult, currency string) string {
	rows := make([][]string, 0, len(results))
	for _, s := range results {
		rows = append(rows, []string{
			FormatCurrency(s.ExtraPayment, currency) + "/mo",
			FormatDuration(s.MonthsSaved),
			FormatCurrency(s.InterestSaved, currency),
			FormatDuration(s.NewPayoffTime),
		})
	}

	var sb strings.Builder
	sb.WriteString(RenderTitle("Extra payment scenarios"))
	sb.WriteString("\n")
	sb.WriteString(renderTable([]string{"Extra", "Time saved", "Interest saved", "New payoff"}, rows))
	sb.WriteString("\n")
	if len(results) == 0 {
		sb.WriteString(mutedStyle.Render("No scenarios"))
		sb.WriteString("\n")
	}
	return sb.String()
}
