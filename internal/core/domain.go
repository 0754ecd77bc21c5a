package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	FieldType      RowField = "type"
	FieldMonday    RowField = "monday"
	FieldTuesday   RowField = "tuesday"
	FieldWednesday RowField = "wednesday"
	FieldThursday  RowField = "thursday"
	FieldFriday    RowField = "friday"

	FieldDescription AddonField = "description"
	FieldAmount      AddonField = "amount"

	FirstPaycheck  PaycheckSlot = "first"
	SecondPaycheck PaycheckSlot = "second"
)

type (
	// RowField names one editable column of an expense row.
	RowField string

	// AddonField names one editable column of an add-on.
	AddonField string

	// PaycheckSlot selects one of the two monthly paychecks.
	PaycheckSlot string

	// MonthKey identifies one month. Month is zero-based (0 = January).
	MonthKey struct {
		Year  int
		Month int
	}

	// ExpenseRow is one expense category bucketed by weekday.
	ExpenseRow struct {
		Type      string `json:"type"`
		Monday    Amount `json:"monday"`
		Tuesday   Amount `json:"tuesday"`
		Wednesday Amount `json:"wednesday"`
		Thursday  Amount `json:"thursday"`
		Friday    Amount `json:"friday"`
	}

	// Addon is extra income outside the two paychecks.
	Addon struct {
		Description string `json:"description"`
		Amount      Amount `json:"amount"`
	}

	// MonthRecord is everything recorded for one month.
	MonthRecord struct {
		FirstPaycheck  Amount       `json:"firstPaycheck"`
		SecondPaycheck Amount       `json:"secondPaycheck"`
		ExpenseRows    []ExpenseRow `json:"expenseRows"`
		Addons         []Addon      `json:"addons"`
	}

	// Ledger maps every recorded month to its record. It is persisted as a
	// single JSON object keyed by MonthKey.String().
	Ledger map[MonthKey]MonthRecord
)

var (
	ErrInvalidMonthKey     = errors.New("invalid month key")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrUnknownField        = errors.New("unknown field")
	ErrInvalidPaycheckSlot = errors.New("invalid paycheck slot")
)

// RowFields lists the editable row columns in display order.
var RowFields = []RowField{FieldType, FieldMonday, FieldTuesday, FieldWednesday, FieldThursday, FieldFriday}

// RangeError reports an index outside a row or add-on sequence.
type RangeError struct {
	Sequence string
	Index    int
	Len      int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Sequence, e.Index, e.Len)
}

// Is makes errors.Is(err, ErrIndexOutOfRange) match any RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// NewMonthKey returns the key for year and zero-based month.
func NewMonthKey(year, month int) (MonthKey, error) {
	k := MonthKey{Year: year, Month: month}
	if err := k.Validate(); err != nil {
		return MonthKey{}, err
	}
	return k, nil
}

// MonthKeyOf returns the key of the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month()) - 1}
}

// ParseMonthKey parses the "{year}-{month}" form produced by String.
func ParseMonthKey(s string) (MonthKey, error) {
	y, m, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return NewMonthKey(year, month)
}

func (k MonthKey) Validate() error {
	if k.Month < 0 || k.Month > 11 {
		return fmt.Errorf("%w: month %d not in 0-11", ErrInvalidMonthKey, k.Month)
	}
	if k.Year < 1 || k.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidMonthKey, k.Year)
	}
	return nil
}

func (k MonthKey) String() string {
	return strconv.Itoa(k.Year) + "-" + strconv.Itoa(k.Month)
}

// AddMonths moves the key by delta months, rolling the year over.
func (k MonthKey) AddMonths(delta int) MonthKey {
	total := k.Year*12 + k.Month + delta
	year, month := total/12, total%12
	if month < 0 {
		month += 12
		year--
	}
	return MonthKey{Year: year, Month: month}
}

// Title returns a display name like "October 2026".
func (k MonthKey) Title() string {
	return time.Month(k.Month+1).String() + " " + strconv.Itoa(k.Year)
}

func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseRowField validates a column name coming from a form or request.
func ParseRowField(s string) (RowField, error) {
	f := RowField(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range RowFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: row field %q", ErrUnknownField, s)
}

// IsDay reports whether the field holds an amount rather than the label.
func (f RowField) IsDay() bool {
	return f != FieldType
}

func ParseAddonField(s string) (AddonField, error) {
	switch f := AddonField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldDescription, FieldAmount:
		return f, nil
	}
	return "", fmt.Errorf("%w: add-on field %q", ErrUnknownField, s)
}

func ParsePaycheckSlot(s string) (PaycheckSlot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1":
		return FirstPaycheck, nil
	case "second", "2":
		return SecondPaycheck, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaycheckSlot, s)
}

// NewMonthRecord returns the default record created on first access.
func NewMonthRecord() MonthRecord {
	return MonthRecord{
		ExpenseRows: []ExpenseRow{},
		Addons:      []Addon{},
	}
}

// Clone returns a deep copy; the slices are not shared.
func (r MonthRecord) Clone() MonthRecord {
	out := r
	out.ExpenseRows = append(make([]ExpenseRow, 0, len(r.ExpenseRows)), r.ExpenseRows...)
	out.Addons = append(make([]Addon, 0, len(r.Addons)), r.Addons...)
	return out
}

// Clone returns a copy of the ledger with every record deep-copied.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, r := range l {
		out[k] = r.Clone()
	}
	return out
}

// Day returns the amount stored under a weekday field.
func (row ExpenseRow) Day(f RowField) Amount {
	switch f {
	case FieldMonday:
		return row.Monday
	case FieldTuesday:
		return row.Tuesday
	case FieldWednesday:
		return row.Wednesday
	case FieldThursday:
		return row.Thursday
	case FieldFriday:
		return row.Friday
	}
	return Amount{}
}
