// Package chart turns a yearly series into the data and configuration the
// browser's Chart.js line chart consumes.
package chart

import (
	"strconv"

	"budget/internal/core"
)

const (
	IncomeColor  = "#00b894"
	ExpenseColor = "#ff7675"
	BalanceColor = "#6c5ce7"
)

// YearlyData is the per-month income, expense and balance of one year.
type YearlyData struct {
	Year    int       `json:"year"`
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income"`
	Expense []float64 `json:"expense"`
	Balance []float64 `json:"balance"`
}

// FromSeries converts a twelve-month series. Shorter series are padded with zeros.
func FromSeries(year int, series []core.Totals) YearlyData {
	d := YearlyData{
		Year:    year,
		Labels:  make([]string, 12),
		Income:  make([]float64, 12),
		Expense: make([]float64, 12),
		Balance: make([]float64, 12),
	}
	for m := 0; m < 12; m++ {
		d.Labels[m] = core.MonthNames[m][:3]
		if m < len(series) {
			d.Income[m] = series[m].Income.Float64()
			d.Expense[m] = series[m].Expense.Float64()
			d.Balance[m] = series[m].Balance.Float64()
		}
	}
	return d
}

type (
	// Config is a Chart.js chart configuration.
	Config struct {
		Type    string  `json:"type"`
		Data    Data    `json:"data"`
		Options Options `json:"options"`
	}

	Data struct {
		Labels   []string  `json:"labels"`
		Datasets []Dataset `json:"datasets"`
	}

	Dataset struct {
		Label           string    `json:"label"`
		Data            []float64 `json:"data"`
		BorderColor     string    `json:"borderColor"`
		BackgroundColor string    `json:"backgroundColor"`
		Tension         float64   `json:"tension"`
		Fill            bool      `json:"fill"`
	}

	Options struct {
		Responsive          bool `json:"responsive"`
		MaintainAspectRatio bool `json:"maintainAspectRatio"`
		Plugins             struct {
			Title struct {
				Display bool   `json:"display"`
				Text    string `json:"text"`
			} `json:"title"`
		} `json:"plugins"`
	}
)

// LineChart builds the three-series line chart for d.
func LineChart(d YearlyData) Config {
	cfg := Config{
		Type: "line",
		Data: Data{
			Labels: d.Labels,
			Datasets: []Dataset{
				dataset("Income", d.Income, IncomeColor),
				dataset("Expenses", d.Expense, ExpenseColor),
				dataset("Balance", d.Balance, BalanceColor),
			},
		},
	}
	cfg.Options.Responsive = true
	cfg.Options.Plugins.Title.Display = true
	cfg.Options.Plugins.Title.Text = "Yearly overview " + strconv.Itoa(d.Year)
	return cfg
}

func dataset(label string, data []float64, color string) Dataset {
	return Dataset{
		Label:           label,
		Data:            data,
		BorderColor:     color,
		BackgroundColor: color + "33",
		Tension:         0.3,
	}
}
