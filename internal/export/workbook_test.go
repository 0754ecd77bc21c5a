package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"budget/internal/core"
)

func TestYearlyWorkbook(t *testing.T) {
	series := make([]core.Totals, 12)
	series[0] = core.Totals{Income: core.AmountFromInt(3000), Expense: core.NewAmount(105, 50), Balance: core.NewAmount(2894, 50)}
	series[6] = core.Totals{Expense: core.AmountFromInt(40), Balance: core.AmountFromInt(-40)}

	b, err := YearlyWorkbook(2024, series)
	if err != nil {
		t.Fatalf("YearlyWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "2024" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	raw := excelize.Options{RawCellValue: true}
	cases := map[string]string{
		"A1":  "Month",
		"D1":  "Balance",
		"A2":  "January",
		"B2":  "3000",
		"C2":  "105.5",
		"D2":  "2894.5",
		"A8":  "July",
		"D8":  "-40",
		"A13": "December",
		"B13": "0",
		"A14": "Total",
	}
	for c, want := range cases {
		got, err := f.GetCellValue("2024", c, raw)
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", c, got, want)
		}
	}

	formula, err := f.GetCellFormula("2024", "D14")
	if err != nil || formula != "SUM(D2:D13)" {
		t.Fatalf("unexpected total formula %q (err=%v)", formula, err)
	}
}

func TestYearlyWorkbookShortSeries(t *testing.T) {
	b, err := YearlyWorkbook(2030, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("2030", "A13"); got != "December" {
		t.Fatalf("expected twelve month rows, A13 = %q", got)
	}
}
