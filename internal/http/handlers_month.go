package http

import (
	"bytes"
	"context"
	"net/http"

	"budget/internal/core"
	applog "budget/internal/log"
)

// handleIndex redirects to the current month.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	key := core.MonthKeyOf(s.now())
	http.Redirect(w, r, "/months/"+key.String(), http.StatusFound)
}

func (s *Server) handleMonthPage(w http.ResponseWriter, r *http.Request) {
	key, err := parseMonthKey(r)
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}
	rec, err := s.svc.Month(key)
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "month.html", newMonthPage(key, rec)); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", "month.html", applog.FieldMonthKey, key.String())
		InternalServerError("Could not render the page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(buf.Bytes()).Write(w)
}

// handleMonthBody renders the editable part of the page on its own.
func (s *Server) handleMonthBody(w http.ResponseWriter, r *http.Request) {
	key, err := parseMonthKey(r)
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}
	rec, err := s.svc.Month(key)
	if err != nil {
		s.fail(w, r, applog.OpRead, err)
		return
	}
	s.renderBody(w, r, key, rec, NewHTMXResponse())
}

func (s *Server) handleSetPaycheck(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpUpdate, func(ctx context.Context, key core.MonthKey, body *RequestBodyParser) (core.MonthRecord, error) {
		slot, err := core.ParsePaycheckSlot(r.PathValue("slot"))
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.SetPaycheck(ctx, key, slot, body.Get("value"))
	})
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpAddRow, func(ctx context.Context, key core.MonthKey, _ *RequestBodyParser) (core.MonthRecord, error) {
		return s.svc.AddRow(ctx, key)
	})
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpDelete, func(ctx context.Context, key core.MonthKey, _ *RequestBodyParser) (core.MonthRecord, error) {
		i, err := parseIndex(r, "index")
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.DeleteRow(ctx, key, i)
	})
}

// handleUpdateRow applies one (index, field, value) edit.
func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpUpdate, func(ctx context.Context, key core.MonthKey, body *RequestBodyParser) (core.MonthRecord, error) {
		i, err := parseIndex(r, "index")
		if err != nil {
			return core.MonthRecord{}, err
		}
		field, err := core.ParseRowField(body.Get("field"))
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.UpdateRow(ctx, key, i, field, body.Get("value"))
	})
}

func (s *Server) handleReorderRows(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpReorder, func(ctx context.Context, key core.MonthKey, body *RequestBodyParser) (core.MonthRecord, error) {
		from, err := body.Int("from")
		if err != nil {
			return core.MonthRecord{}, err
		}
		to, err := body.Int("to")
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.ReorderRow(ctx, key, from, to)
	})
}

func (s *Server) handleAddAddon(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpAddAddon, func(ctx context.Context, key core.MonthKey, _ *RequestBodyParser) (core.MonthRecord, error) {
		return s.svc.AddAddon(ctx, key)
	})
}

func (s *Server) handleDeleteAddon(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpDelete, func(ctx context.Context, key core.MonthKey, _ *RequestBodyParser) (core.MonthRecord, error) {
		i, err := parseIndex(r, "index")
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.DeleteAddon(ctx, key, i)
	})
}

func (s *Server) handleUpdateAddon(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, applog.OpUpdate, func(ctx context.Context, key core.MonthKey, body *RequestBodyParser) (core.MonthRecord, error) {
		i, err := parseIndex(r, "index")
		if err != nil {
			return core.MonthRecord{}, err
		}
		field, err := core.ParseAddonField(body.Get("field"))
		if err != nil {
			return core.MonthRecord{}, err
		}
		return s.svc.UpdateAddon(ctx, key, i, field, body.Get("value"))
	})
}

type editFunc func(ctx context.Context, key core.MonthKey, body *RequestBodyParser) (core.MonthRecord, error)

// edit runs one mutation and answers with the re-rendered month body plus a
// month:updated trigger so the page refreshes its chart.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, op string, fn editFunc) {
	key, err := parseMonthKey(r)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	body := NewRequestBodyParser(w, r)
	if err := body.Parse(); err != nil {
		s.fail(w, r, op, err)
		return
	}

	rec, err := fn(r.Context(), key, body)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.renderBody(w, r, key, rec, NewHTMXResponse().TriggerMonthUpdated(key))
}

func (s *Server) renderBody(w http.ResponseWriter, r *http.Request, key core.MonthKey, rec core.MonthRecord, resp *HTMXResponseBuilder) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "month_body", newMonthPage(key, rec)); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", "month_body", applog.FieldMonthKey, key.String())
		InternalServerError("Could not render the month").Write(w)
		return
	}
	resp.BodyHTML(buf.Bytes()).Write(w)
}

// fail logs err at a level matching its status and writes the error fragment.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	fields := applog.NewFields().
		WithOperation(op).
		WithError(err).
		With(applog.FieldPath, r.URL.Path)

	if StatusFor(err) >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "Request failed", fields.ToSlice()...)
	} else {
		s.logger.WarnContext(ctx, "Request rejected", fields.ToSlice()...)
	}
	ErrorFor(err).Write(w)
}
