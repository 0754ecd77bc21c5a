// Package report renders month and year summaries for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"budget/internal/core"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#6C5CE7")
	colorGreen  = lipgloss.Color("#00B894")
	colorRed    = lipgloss.Color("#FF7675")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle   = lipgloss.NewStyle().Foreground(colorBorder)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands separators and two decimals.
func Money(a core.Amount) string {
	return printer.Sprintf("%.2f", a.Float64())
}

// Table is a bordered text table. The first column is left aligned and the
// rest are right aligned. A row holding the single cell "---" draws a rule.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return dimStyle.Render(b.String()) + "\n"
}

// RenderTable draws t with rounded box characters.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule(widths, "╭", "┬", "╮"))

	sep := dimStyle.Render("│")
	if len(t.Headers) > 0 {
		b.WriteString(sep)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(sep)
		for i := 0; i < cols; i++ {
			var c string
			if i < len(row) {
				c = row[i]
			}
			format := " %*s "
			if i == 0 {
				format = " %-*s "
			}
			b.WriteString(valueStyle.Render(fmt.Sprintf(format, widths[i], c)))
			b.WriteString(sep)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule(widths, "╰", "┴", "╯"))
	return b.String()
}

// Sparkline maps values onto eight block heights between their minimum and
// maximum, so negative balances still draw.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return b.String()
}

func signed(a core.Amount) string {
	if a.IsNegative() {
		return badStyle.Render(Money(a))
	}
	return goodStyle.Render(Money(a))
}

// RenderMonth prints the paychecks, expense rows, add-ons and totals of one
// month.
func RenderMonth(key core.MonthKey, rec core.MonthRecord) string {
	var b strings.Builder
	b.WriteString(renderTitle(key.Title()))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(Table{
		Title:   "Paychecks",
		Headers: []string{"Paycheck", "Amount"},
		Rows: [][]string{
			{"First", Money(rec.FirstPaycheck)},
			{"Second", Money(rec.SecondPaycheck)},
		},
	}))
	b.WriteString("\n")

	if len(rec.ExpenseRows) == 0 {
		b.WriteString("  " + dimStyle.Render("No expense rows yet.") + "\n\n")
	} else {
		rows := make([][]string, 0, len(rec.ExpenseRows))
		for _, r := range rec.ExpenseRows {
			label := r.Type
			if label == "" {
				label = "-"
			}
			rows = append(rows, []string{
				label,
				Money(r.Monday), Money(r.Tuesday), Money(r.Wednesday), Money(r.Thursday), Money(r.Friday),
				Money(r.Total()),
			})
		}
		b.WriteString(RenderTable(Table{
			Title:   "Expenses",
			Headers: []string{"Type", "Mon", "Tue", "Wed", "Thu", "Fri", "Total"},
			Rows:    rows,
		}))
		b.WriteString("\n")
	}

	if len(rec.Addons) == 0 {
		b.WriteString("  " + dimStyle.Render("No add-ons yet.") + "\n\n")
	} else {
		rows := make([][]string, 0, len(rec.Addons))
		for _, a := range rec.Addons {
			rows = append(rows, []string{a.Description, Money(a.Amount)})
		}
		b.WriteString(RenderTable(Table{Title: "Add-ons", Headers: []string{"Description", "Amount"}, Rows: rows}))
		b.WriteString("\n")
	}

	t := core.MonthTotals(rec)
	b.WriteString(fmt.Sprintf("  Income   %s\n", valueStyle.Render(Money(t.Income))))
	b.WriteString(fmt.Sprintf("  Expenses %s\n", valueStyle.Render(Money(t.Expense))))
	b.WriteString(fmt.Sprintf("  Balance  %s\n", signed(t.Balance)))
	return b.String()
}

// RenderYear prints the twelve month series with a totals row and a balance
// sparkline.
func RenderYear(year int, series []core.Totals) string {
	var b strings.Builder
	b.WriteString(renderTitle(fmt.Sprintf("Yearly overview %d", year)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, 14)
	balances := make([]float64, 0, 12)
	for m := 0; m < 12; m++ {
		var t core.Totals
		if m < len(series) {
			t = series[m]
		}
		rows = append(rows, []string{core.MonthNames[m], Money(t.Income), Money(t.Expense), Money(t.Balance)})
		balances = append(balances, t.Balance.Float64())
	}
	sum := core.SumSeries(series)
	rows = append(rows, []string{"---"}, []string{"Total", Money(sum.Income), Money(sum.Expense), Money(sum.Balance)})

	b.WriteString(RenderTable(Table{Headers: []string{"Month", "Income", "Expenses", "Balance"}, Rows: rows}))
	b.WriteString("\n  Balance " + Sparkline(balances) + "\n")
	return b.String()
}
