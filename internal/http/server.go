package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "budget/internal/log"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/services"
	appweb "budget/web"
)

// Config configures NewServer.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	// Ready checks the storage backend for /readyz. Nil means always ready.
	Ready  func(context.Context) error
	Logger *applog.Logger
	// Now overrides the clock used to pick the current month.
	Now func() time.Time
}

type Server struct {
	http.Server
	svc       *services.BudgetService
	templates *template.Template
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	ready     func(context.Context) error
	logger    *applog.Logger
	now       func() time.Time
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg Config, svc *services.BudgetService) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		svc:       svc,
		templates: t,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		tracer:    trace.NewMiddleware(logger, security.ClientIP),
		ready:     cfg.Ready,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		now:       now,
		started:   now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(security.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, security.ClientIP(r), applog.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.tracer.Middleware(headers.Middleware(limit(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /months/{key}", s.handleMonthPage)
	mux.HandleFunc("GET /months/{key}/body", s.handleMonthBody)
	mux.HandleFunc("PUT /months/{key}/paychecks/{slot}", s.handleSetPaycheck)

	mux.HandleFunc("POST /months/{key}/rows", s.handleAddRow)
	mux.HandleFunc("POST /months/{key}/rows/reorder", s.handleReorderRows)
	mux.HandleFunc("PATCH /months/{key}/rows/{index}", s.handleUpdateRow)
	mux.HandleFunc("DELETE /months/{key}/rows/{index}", s.handleDeleteRow)

	mux.HandleFunc("POST /months/{key}/addons", s.handleAddAddon)
	mux.HandleFunc("PATCH /months/{key}/addons/{index}", s.handleUpdateAddon)
	mux.HandleFunc("DELETE /months/{key}/addons/{index}", s.handleDeleteAddon)

	mux.HandleFunc("GET /api/years/{year}/chart", s.handleYearChart)
	mux.HandleFunc("GET /api/months/{key}/totals", s.handleMonthTotals)
	mux.HandleFunc("GET /export/{file}", s.handleExport)
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
