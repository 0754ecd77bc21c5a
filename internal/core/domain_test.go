package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseMonthKey(t *testing.T) {
	cases := []struct {
		in  string
		out MonthKey
		ok  bool
	}{
		{"2024-0", MonthKey{2024, 0}, true},
		{"2024-11", MonthKey{2024, 11}, true},
		{" 2026-9 ", MonthKey{2026, 9}, true},
		{"2024-12", MonthKey{}, false},
		{"2024--1", MonthKey{}, false},
		{"2024", MonthKey{}, false},
		{"x-1", MonthKey{}, false},
		{"", MonthKey{}, false},
	}
	for _, tc := range cases {
		got, err := ParseMonthKey(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
			if got.String() != strings.TrimSpace(tc.in) {
				t.Fatalf("%q did not round-trip: %q", tc.in, got.String())
			}
		} else if !errors.Is(err, ErrInvalidMonthKey) {
			t.Fatalf("%q expected ErrInvalidMonthKey, got %v", tc.in, err)
		}
	}
}

func TestMonthKeyAddMonths(t *testing.T) {
	cases := []struct {
		from  MonthKey
		delta int
		want  MonthKey
	}{
		{MonthKey{2024, 0}, -1, MonthKey{2023, 11}},
		{MonthKey{2024, 11}, 1, MonthKey{2025, 0}},
		{MonthKey{2024, 5}, 0, MonthKey{2024, 5}},
		{MonthKey{2024, 5}, -18, MonthKey{2022, 11}},
		{MonthKey{2024, 5}, 30, MonthKey{2026, 11}},
	}
	for _, tc := range cases {
		if got := tc.from.AddMonths(tc.delta); got != tc.want {
			t.Fatalf("%v%+d expected %v, got %v", tc.from, tc.delta, tc.want, got)
		}
	}
}

func TestMonthKeyOfAndTitle(t *testing.T) {
	k := MonthKeyOf(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC))
	if k != (MonthKey{2026, 9}) {
		t.Fatalf("unexpected key %v", k)
	}
	if k.Title() != "October 2026" {
		t.Fatalf("unexpected title %q", k.Title())
	}
}

func TestMonthKeyAsJSONMapKey(t *testing.T) {
	l := Ledger{{2024, 0}: NewMonthRecord()}
	b, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if _, ok := raw["2024-0"]; !ok {
		t.Fatalf("expected key 2024-0 in %s", b)
	}
}

func TestParseFields(t *testing.T) {
	for _, s := range []string{"type", "Monday", " friday "} {
		if _, err := ParseRowField(s); err != nil {
			t.Fatalf("%q: unexpected %v", s, err)
		}
	}
	if _, err := ParseRowField("saturday"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := ParseAddonField("amount"); err != nil {
		t.Fatalf("unexpected %v", err)
	}
	if _, err := ParseAddonField("type"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if s, err := ParsePaycheckSlot("2"); err != nil || s != SecondPaycheck {
		t.Fatalf("unexpected %v %v", s, err)
	}
	if _, err := ParsePaycheckSlot("third"); !errors.Is(err, ErrInvalidPaycheckSlot) {
		t.Fatalf("expected ErrInvalidPaycheckSlot, got %v", err)
	}
}

func TestRangeErrorMatchesSentinel(t *testing.T) {
	var err error = &RangeError{Sequence: "row", Index: 3, Len: 1}
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected RangeError to match ErrIndexOutOfRange")
	}
	var re *RangeError
	if !errors.As(err, &re) || re.Index != 3 {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	r := NewMonthRecord()
	r.AddRow()
	c := r.Clone()
	if err := c.UpdateRow(0, FieldType, "Food"); err != nil {
		t.Fatal(err)
	}
	if r.ExpenseRows[0].Type != "" {
		t.Fatalf("clone shares rows with original")
	}
}
