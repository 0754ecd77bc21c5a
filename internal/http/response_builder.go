// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing HTMX responses.
// It provides a fluent API for building HX-Trigger headers and consistent
// error fragments.

package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"budget/internal/core"
)

// EventMonthUpdated tells the page that totals changed and the chart must refresh.
const EventMonthUpdated = "month:updated"

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerMonthUpdated fires month:updated carrying the key and its year.
func (b *HTMXResponseBuilder) TriggerMonthUpdated(key core.MonthKey) *HTMXResponseBuilder {
	return b.Trigger(EventMonthUpdated, map[string]any{"key": key.String(), "year": key.Year})
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html []byte) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = html
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates an error fragment. The message is HTML-escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML([]byte(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`))
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func TooManyRequestsError() *HTMXResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Too many changes at once. Please wait a moment and try again.")
}

// StatusFor classifies an edit error: caller mistakes are 4xx, everything
// else (persistence above all) is 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadParameter),
		errors.Is(err, core.ErrInvalidMonthKey),
		errors.Is(err, core.ErrUnknownField),
		errors.Is(err, core.ErrInvalidPaycheckSlot):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrIndexOutOfRange):
		return http.StatusNotFound
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// ErrorFor builds the fragment for err. Server-side failures get a generic
// message; the cause is only logged.
func ErrorFor(err error) *HTMXResponseBuilder {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		return InternalServerError("Could not save your changes. Please try again.")
	}
	return ErrorResponse(status, err.Error())
}
