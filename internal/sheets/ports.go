// Package sheets mirrors yearly budget summaries into a spreadsheet.
package sheets

import (
	"context"

	"budget/internal/core"
)

// SummaryWriter replaces the summary of one year.
type SummaryWriter interface {
	WriteYearSummary(ctx context.Context, year int, series []core.Totals) error
}

// SummaryHeader is the first row of every summary sheet.
var SummaryHeader = []string{"Month", "Income", "Expenses", "Balance"}

// SummaryRows lays out a yearly series as header, one row per month and a
// final totals row. Amounts use two decimals.
func SummaryRows(series []core.Totals) [][]string {
	rows := make([][]string, 0, len(series)+2)
	rows = append(rows, append([]string(nil), SummaryHeader...))
	for m, t := range series {
		name := ""
		if m < len(core.MonthNames) {
			name = core.MonthNames[m]
		}
		rows = append(rows, []string{name, t.Income.Fixed(), t.Expense.Fixed(), t.Balance.Fixed()})
	}
	sum := core.SumSeries(series)
	rows = append(rows, []string{"Total", sum.Income.Fixed(), sum.Expense.Fixed(), sum.Balance.Fixed()})
	return rows
}
