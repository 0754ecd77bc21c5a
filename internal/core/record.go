package core

import (
	"strings"
	"unicode"
)

// SetPaycheck stores value into the given paycheck slot.
func (r *MonthRecord) SetPaycheck(slot PaycheckSlot, value Amount) error {
	switch slot {
	case FirstPaycheck:
		r.FirstPaycheck = value
	case SecondPaycheck:
		r.SecondPaycheck = value
	default:
		return ErrInvalidPaycheckSlot
	}
	return nil
}

// Paycheck returns the amount stored in slot.
func (r MonthRecord) Paycheck(slot PaycheckSlot) Amount {
	if slot == SecondPaycheck {
		return r.SecondPaycheck
	}
	return r.FirstPaycheck
}

// AddRow inserts an empty row at the front, where new rows are edited.
func (r *MonthRecord) AddRow() {
	r.ExpenseRows = append([]ExpenseRow{{}}, r.ExpenseRows...)
}

func (r *MonthRecord) DeleteRow(i int) error {
	if err := checkIndex("row", i, len(r.ExpenseRows)); err != nil {
		return err
	}
	r.ExpenseRows = append(r.ExpenseRows[:i:i], r.ExpenseRows[i+1:]...)
	return nil
}

// UpdateRow writes one field. Day fields are coerced with ParseAmount; the
// type label is stored as given after CleanLabel.
func (r *MonthRecord) UpdateRow(i int, field RowField, value string) error {
	if err := checkIndex("row", i, len(r.ExpenseRows)); err != nil {
		return err
	}
	row := &r.ExpenseRows[i]
	switch field {
	case FieldType:
		row.Type = CleanLabel(value)
	case FieldMonday:
		row.Monday = ParseAmount(value)
	case FieldTuesday:
		row.Tuesday = ParseAmount(value)
	case FieldWednesday:
		row.Wednesday = ParseAmount(value)
	case FieldThursday:
		row.Thursday = ParseAmount(value)
	case FieldFriday:
		row.Friday = ParseAmount(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// ReorderRow moves the row at from so that it ends up at index to.
func (r *MonthRecord) ReorderRow(from, to int) error {
	n := len(r.ExpenseRows)
	if err := checkIndex("row", from, n); err != nil {
		return err
	}
	if err := checkIndex("row", to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	moved := r.ExpenseRows[from]
	rows := append(r.ExpenseRows[:from:from], r.ExpenseRows[from+1:]...)
	rows = append(rows[:to], append([]ExpenseRow{moved}, rows[to:]...)...)
	r.ExpenseRows = rows
	return nil
}

// AddAddon inserts an empty add-on at the front.
func (r *MonthRecord) AddAddon() {
	r.Addons = append([]Addon{{}}, r.Addons...)
}

func (r *MonthRecord) DeleteAddon(i int) error {
	if err := checkIndex("add-on", i, len(r.Addons)); err != nil {
		return err
	}
	r.Addons = append(r.Addons[:i:i], r.Addons[i+1:]...)
	return nil
}

func (r *MonthRecord) UpdateAddon(i int, field AddonField, value string) error {
	if err := checkIndex("add-on", i, len(r.Addons)); err != nil {
		return err
	}
	switch field {
	case FieldDescription:
		r.Addons[i].Description = CleanLabel(value)
	case FieldAmount:
		r.Addons[i].Amount = ParseAmount(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// CleanLabel trims surrounding space and drops control characters.
func CleanLabel(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func checkIndex(seq string, i, n int) error {
	if i < 0 || i >= n {
		return &RangeError{Sequence: seq, Index: i, Len: n}
	}
	return nil
}
