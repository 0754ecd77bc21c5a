// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// path parameters (month keys, indices) and edit bodies sent either as
// HTMX form posts or as JSON.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budget/internal/core"
)

// maxBodyBytes bounds edit bodies; a single cell value is tiny.
const maxBodyBytes = 64 << 10

// ErrBadParameter reports a path or form parameter with invalid syntax.
var ErrBadParameter = errors.New("invalid parameter")

// parseMonthKey reads the {key} path segment.
func parseMonthKey(r *http.Request) (core.MonthKey, error) {
	return core.ParseMonthKey(r.PathValue("key"))
}

// parseIndex reads an integer path segment such as {index}.
func parseIndex(r *http.Request, name string) (int, error) {
	return parseInt(name, r.PathValue(name))
}

func parseInt(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrBadParameter, name, raw)
	}
	return n, nil
}

// parseYear validates a calendar year the same way month keys do.
func parseYear(raw string) (int, error) {
	year, err := parseInt("year", raw)
	if err != nil {
		return 0, err
	}
	if _, err := core.NewMonthKey(year, 0); err != nil {
		return 0, err
	}
	return year, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, and falls back to the query
// string so HTMX attributes like hx-patch="...?field=monday" work.
type RequestBodyParser struct {
	body     []byte
	query    url.Values
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once, bounded by maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{query: r.URL.Query()}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: body: %v", ErrBadParameter, err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	if p.err != nil {
		p.err = fmt.Errorf("%w: body: %v", ErrBadParameter, p.err)
	}
	return p.err
}

// Get returns a cleaned value from the body, or from the query string when
// the body does not carry it.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return core.CleanLabel(stringValue(val))
		}
	}
	if p.formData != nil && p.formData.Has(key) {
		return core.CleanLabel(p.formData.Get(key))
	}
	return core.CleanLabel(p.query.Get(key))
}

// Int returns a required integer value.
func (p *RequestBodyParser) Int(key string) (int, error) {
	return parseInt(key, p.Get(key))
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
