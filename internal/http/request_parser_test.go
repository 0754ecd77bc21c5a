package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/core"
)

func TestParseMonthKeyFromPath(t *testing.T) {
	tests := []struct {
		key     string
		want    core.MonthKey
		wantErr bool
	}{
		{"2024-0", core.MonthKey{Year: 2024, Month: 0}, false},
		{"2026-11", core.MonthKey{Year: 2026, Month: 11}, false},
		{"2024-12", core.MonthKey{}, true},
		{"2024", core.MonthKey{}, true},
		{"abc-1", core.MonthKey{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/months/"+tt.key, nil)
			r.SetPathValue("key", tt.key)
			got, err := parseMonthKey(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, core.ErrInvalidMonthKey) {
				t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/months/2024-1/rows/3", nil)
	r.SetPathValue("index", "3")
	if i, err := parseIndex(r, "index"); err != nil || i != 3 {
		t.Fatalf("parseIndex = %d, %v", i, err)
	}

	r.SetPathValue("index", "three")
	if _, err := parseIndex(r, "index"); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter, got %v", err)
	}
}

func TestParseYear(t *testing.T) {
	if y, err := parseYear("2025"); err != nil || y != 2025 {
		t.Fatalf("parseYear(2025) = %d, %v", y, err)
	}
	if _, err := parseYear("0"); !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey for year 0, got %v", err)
	}
	if _, err := parseYear("20x5"); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter, got %v", err)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPatch, "/months/2024-1/rows/0", strings.NewReader(`{"field":"monday","value":12.5,"from":2}`))
	r.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(httptest.NewRecorder(), r)

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.IsJSON() {
		t.Error("expected JSON body")
	}
	if got := p.Get("field"); got != "monday" {
		t.Errorf("field = %q", got)
	}
	if got := p.Get("value"); got != "12.5" {
		t.Errorf("value = %q", got)
	}
	if n, err := p.Int("from"); err != nil || n != 2 {
		t.Errorf("from = %d, %v", n, err)
	}
}

func TestRequestBodyParser_FormWithQueryFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodPatch, "/months/2024-1/rows/0?field=friday", strings.NewReader("value=+7%2C25%0A"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p := NewRequestBodyParser(httptest.NewRecorder(), r)

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := p.Get("field"); got != "friday" {
		t.Errorf("field from query = %q", got)
	}
	if got := p.Get("value"); got != "7,25" {
		t.Errorf("value should be trimmed of whitespace and control chars, got %q", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Errorf("missing = %q", got)
	}
}

func TestRequestBodyParser_EmptyAndInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/months/2024-1/rows", nil)
	p := NewRequestBodyParser(httptest.NewRecorder(), r)
	if err := p.Parse(); err != nil {
		t.Fatalf("empty body should parse: %v", err)
	}
	if _, err := p.Int("from"); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter for missing int, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/months/2024-1/rows/reorder", strings.NewReader(`{"from":`))
	p = NewRequestBodyParser(httptest.NewRecorder(), r)
	if err := p.Parse(); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter for bad JSON, got %v", err)
	}
}

func TestRequestBodyParser_TooLarge(t *testing.T) {
	big := strings.Repeat("a", maxBodyBytes+1)
	r := httptest.NewRequest(http.MethodPatch, "/months/2024-1/rows/0", strings.NewReader("value="+big))
	p := NewRequestBodyParser(httptest.NewRecorder(), r)
	err := p.Parse()
	if err == nil {
		t.Fatal("expected an error for an oversized body")
	}
	if got := StatusFor(err); got != http.StatusRequestEntityTooLarge {
		t.Fatalf("StatusFor = %d, want 413", got)
	}
}
