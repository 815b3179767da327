package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"commissions/internal/cache"
	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/middleware/ratelimit"
	"commissions/internal/middleware/security"
	"commissions/internal/middleware/trace"
	appweb "commissions/web"
)

// Options configures the dashboard server.
type Options struct {
	Addr               string
	CurrencySymbol     string
	DefaultSort        core.SortKey
	DefaultDirection   core.Direction
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
}

type rowsKey struct {
	sort core.SortKey
	dir  core.Direction
}

// Server serves the commission dashboard and its JSON API. It starts
// unready and serves report routes once SetReport has been called.
type Server struct {
	http.Server
	opts      Options
	templates *template.Template
	logger    *applog.Logger

	report atomic.Pointer[core.Report]

	// rows holds sorted row sets; cached slices are read-only
	rows     *cache.LRUCache[rowsKey, []core.Row]
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
}

func NewServer(opts Options, logger *applog.Logger) (*Server, error) {
	if opts.DefaultSort == "" {
		opts.DefaultSort = core.SortByName
	}
	if opts.DefaultDirection == "" {
		opts.DefaultDirection = core.Ascending
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	httpLogger := logger.WithComponent(applog.ComponentHTTP)
	detector := security.NewDetector()

	s := &Server{
		opts:      opts,
		templates: t,
		logger:    httpLogger,
		rows:      cache.NewLRUCache[rowsKey, []core.Row](opts.CacheSize, opts.CacheTTL),
		caches:    cache.NewManager(logger),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:  detector,
		tracer:    trace.NewMiddleware(detector.ClientIP, logger),
	}
	s.caches.Register(s.rows)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracer.Handler)
	r.Use(chimw.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.detector.Middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(security.StaticAssets(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/ui/rules", s.handleRules)
	r.Group(func(r chi.Router) {
		r.Use(s.requireReport)
		r.Get("/", s.handleIndex)
		r.Get("/ui/report-table", s.handleReportTable)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ClientIP, writeRateLimited))
		r.Get("/rules", s.handleAPIRules)
		r.With(s.requireReport).Get("/report", s.handleAPIReport)
	})

	return r
}

// SetReport publishes the report to handlers and marks the server ready.
func (s *Server) SetReport(r core.Report) {
	s.report.Store(&r)
	s.rows.Purge()
	s.logger.Info("Report published to dashboard",
		applog.FieldSalespeople, r.Totals.Salespeople,
		applog.FieldSaleCount, r.Totals.SaleCount)
}

func (s *Server) Ready() bool {
	return s.report.Load() != nil
}

// RunMaintenance sweeps expired cache entries and stale rate limit windows
// until ctx is cancelled.
func (s *Server) RunMaintenance(ctx context.Context, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.caches.Run(ctx, interval) })
	g.Go(func() error { return s.limiter.Run(ctx) })
	return g.Wait()
}

// sortedRows returns the report rows in the requested order, cached per
// ordering. Unknown orderings are rejected and never cached.
func (s *Server) sortedRows(ctx context.Context, report *core.Report, key core.SortKey, dir core.Direction) ([]core.Row, error) {
	return s.rows.GetOrCompute(rowsKey{sort: key, dir: dir}, func() ([]core.Row, error) {
		if k, err := core.ParseSortKey(string(key)); err != nil || k != key {
			return nil, fmt.Errorf("sort rows: invalid sort key %q", key)
		}
		if d, err := core.ParseDirection(string(dir)); err != nil || d != dir {
			return nil, fmt.Errorf("sort rows: invalid direction %q", dir)
		}
		applog.FromContext(ctx).DebugContext(ctx, "Sorting report rows",
			applog.NewFields().WithSort(string(key), string(dir)).ToSlice()...)
		return report.Sorted(key, dir), nil
	})
}

func (s *Server) requireReport(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Ready() {
			if isHTMX(r) || r.URL.Path == "/" {
				ServiceUnavailableError("The report is still being computed").Write(w)
				return
			}
			w.Header().Set("Retry-After", "5")
			writeJSONError(w, http.StatusServiceUnavailable, "report not ready")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
