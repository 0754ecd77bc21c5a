package core

// Totals is the income / expense / balance triple of one month.
type Totals struct {
	Income  Amount `json:"income"`
	Expense Amount `json:"expense"`
	Balance Amount `json:"balance"`
}

// Total is the sum of the five weekday amounts.
func (row ExpenseRow) Total() Amount {
	return row.Monday.Add(row.Tuesday).Add(row.Wednesday).Add(row.Thursday).Add(row.Friday)
}

// Income is both paychecks plus every add-on.
func (r MonthRecord) Income() Amount {
	sum := r.FirstPaycheck.Add(r.SecondPaycheck)
	for _, a := range r.Addons {
		sum = sum.Add(a.Amount)
	}
	return sum
}

// Expense is the sum of every row total.
func (r MonthRecord) Expense() Amount {
	var sum Amount
	for _, row := range r.ExpenseRows {
		sum = sum.Add(row.Total())
	}
	return sum
}

// MonthTotals computes the totals of one record.
func MonthTotals(r MonthRecord) Totals {
	income, expense := r.Income(), r.Expense()
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// Add sums two triples field by field.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Income:  t.Income.Add(o.Income),
		Expense: t.Expense.Add(o.Expense),
		Balance: t.Balance.Add(o.Balance),
	}
}

// YearlySeries returns twelve totals, January first. Months without a record
// contribute zeros.
func YearlySeries(l Ledger, year int) []Totals {
	series := make([]Totals, 12)
	for m := range series {
		if rec, ok := l[MonthKey{Year: year, Month: m}]; ok {
			series[m] = MonthTotals(rec)
		}
	}
	return series
}

// SumSeries adds up a series, for yearly totals rows.
func SumSeries(series []Totals) Totals {
	var sum Totals
	for _, t := range series {
		sum = sum.Add(t)
	}
	return sum
}

// MonthNames are the display labels used by charts and exports.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}
