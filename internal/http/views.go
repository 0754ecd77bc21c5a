package http

import (
	"budget/internal/core"
)

var dayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

type (
	monthPage struct {
		Key            string
		Title          string
		Year           int
		Prev, Next     string
		PrevTitle      string
		NextTitle      string
		FirstPaycheck  string
		SecondPaycheck string
		DayLabels      []string
		Rows           []rowView
		Addons         []addonView
		Totals         totalsView
	}

	dayCell struct {
		Field string
		Value string
	}

	rowView struct {
		Index int
		Type  string
		Days  []dayCell
		Total string
	}

	addonView struct {
		Index       int
		Description string
		Amount      string
		Display     string
	}

	totalsView struct {
		Income   string
		Expense  string
		Balance  string
		Negative bool
	}
)

// newMonthPage flattens a record into template-ready strings. Editable cells
// are blank when zero; computed totals always show two decimals.
func newMonthPage(key core.MonthKey, rec core.MonthRecord) monthPage {
	prev, next := key.AddMonths(-1), key.AddMonths(1)
	page := monthPage{
		Key:            key.String(),
		Title:          key.Title(),
		Year:           key.Year,
		Prev:           prev.String(),
		Next:           next.String(),
		PrevTitle:      prev.Title(),
		NextTitle:      next.Title(),
		FirstPaycheck:  rec.FirstPaycheck.Input(),
		SecondPaycheck: rec.SecondPaycheck.Input(),
		DayLabels:      dayLabels,
		Rows:           make([]rowView, 0, len(rec.ExpenseRows)),
		Addons:         make([]addonView, 0, len(rec.Addons)),
	}

	for i, row := range rec.ExpenseRows {
		rv := rowView{Index: i, Type: row.Type, Total: row.Total().Fixed()}
		for _, f := range core.RowFields {
			if f.IsDay() {
				rv.Days = append(rv.Days, dayCell{Field: string(f), Value: row.Day(f).Input()})
			}
		}
		page.Rows = append(page.Rows, rv)
	}

	for i, a := range rec.Addons {
		page.Addons = append(page.Addons, addonView{
			Index:       i,
			Description: a.Description,
			Amount:      a.Amount.Input(),
			Display:     a.Amount.Fixed(),
		})
	}

	t := core.MonthTotals(rec)
	page.Totals = totalsView{
		Income:   t.Income.Fixed(),
		Expense:  t.Expense.Fixed(),
		Balance:  t.Balance.Fixed(),
		Negative: t.Balance.IsNegative(),
	}
	return page
}
