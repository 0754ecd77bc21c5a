// Package export renders a yearly budget summary as an XLSX workbook.
package export

import (
	"fmt"
	"strconv"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"

	"budget/internal/core"
)

const (
	firstDataRow = 2
	lastDataRow  = firstDataRow + 11
	totalRow     = lastDataRow + 1
)

// YearlyWorkbook returns an XLSX file with one sheet named after year: a row
// per month, a totals row and a line chart of the three series.
func YearlyWorkbook(year int, series []core.Totals) ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{Application: "budget"})

	sheet := strconv.Itoa(year)
	if err := xlsx.SetSheetName(xlsx.GetSheetName(xlsx.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	_ = xlsx.SetColWidth(sheet, "A", "A", 14)
	_ = xlsx.SetColWidth(sheet, "B", "D", 14)

	header, _ := xlsx.NewStyle(mergeStyles(fontBold(), thinBorder("bottom")))
	money, _ := xlsx.NewStyle(mergeStyles(numberFormat()))
	negative, _ := xlsx.NewStyle(mergeStyles(numberFormat(), fontColor("#D63031")))
	total, _ := xlsx.NewStyle(mergeStyles(fontBold(), numberFormat(), thinBorder("top")))

	for i, h := range []string{"Month", "Income", "Expenses", "Balance"} {
		_ = xlsx.SetCellValue(sheet, cell('A'+rune(i), 1), h)
	}
	_ = xlsx.SetCellStyle(sheet, "A1", "D1", header)

	for m := 0; m < 12; m++ {
		row := firstDataRow + m
		var t core.Totals
		if m < len(series) {
			t = series[m]
		}
		_ = xlsx.SetCellValue(sheet, cell('A', row), core.MonthNames[m])
		_ = xlsx.SetCellValue(sheet, cell('B', row), t.Income.Float64())
		_ = xlsx.SetCellValue(sheet, cell('C', row), t.Expense.Float64())
		_ = xlsx.SetCellValue(sheet, cell('D', row), t.Balance.Float64())
		_ = xlsx.SetCellStyle(sheet, cell('B', row), cell('D', row), money)
		if t.Balance.IsNegative() {
			_ = xlsx.SetCellStyle(sheet, cell('D', row), cell('D', row), negative)
		}
	}

	_ = xlsx.SetCellValue(sheet, cell('A', totalRow), "Total")
	for _, col := range []rune{'B', 'C', 'D'} {
		_ = xlsx.SetCellFormula(sheet, cell(col, totalRow), fmt.Sprintf("SUM(%c%d:%c%d)", col, firstDataRow, col, lastDataRow))
	}
	_ = xlsx.SetCellStyle(sheet, cell('A', totalRow), cell('D', totalRow), total)

	_ = xlsx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	if err := xlsx.AddChart(sheet, "F2", lineChart(sheet)); err != nil {
		return nil, fmt.Errorf("add chart: %w", err)
	}

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func lineChart(sheet string) *excelize.Chart {
	ref := "'" + sheet + "'!"
	categories := fmt.Sprintf("%s$A$%d:$A$%d", ref, firstDataRow, lastDataRow)
	series := make([]excelize.ChartSeries, 0, 3)
	for _, col := range []rune{'B', 'C', 'D'} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s$%c$1", ref, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s$%c$%d:$%c$%d", ref, col, firstDataRow, col, lastDataRow),
		})
	}
	return &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
}

func cell(col rune, row int) string {
	return fmt.Sprintf("%c%d", col, row)
}

func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}

func numberFormat() *excelize.Style {
	f := "#,##0.00"
	return &excelize.Style{CustomNumFmt: &f}
}

func fontBold() *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Bold: true}}
}

func fontColor(c string) *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Color: c}}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{Type: w, Color: "#000000", Style: 1})
	}
	return s
}
