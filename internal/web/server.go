// Package web serves the HTML front end: the evaluation form, the result page and the
// per-category detail pages.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/models"
	"github.com/UnknownOlympus/cityscore/internal/service"
)

// DefaultRequestTimeout bounds a whole page request, including every outbound call.
const DefaultRequestTimeout = 60 * time.Second

// Service is the evaluation backend used by the handlers.
type Service interface {
	Score(ctx context.Context, form service.ScoreForm) (*service.Result, error)
	CostDetails(ctx context.Context, city, countryCode string) (*service.CostReport, error)
	AirDetails(ctx context.Context, city string) (*service.AirReport, error)
	EducationDetails(ctx context.Context, countryCode string) (*service.IndicatorReport, error)
	HealthDetails(ctx context.Context, countryCode string) (*service.IndicatorReport, error)
	SafetyDetails(country string) (*models.SafetyDetail, error)
}

// Options configures the router.
type Options struct {
	StaticDir      string
	RequestTimeout time.Duration
}

// Handler holds the dependencies of the page handlers.
type Handler struct {
	svc   Service
	log   *slog.Logger
	pages map[string]*template.Template
}

// NewRouter builds the public router with every page and the static file server.
func NewRouter(svc Service, log *slog.Logger, m *metrics.Metrics, opts Options) (http.Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	h := &Handler{svc: svc, log: log, pages: pages}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(requestMetrics(m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/", h.index)
	r.Post("/score", h.score)
	r.Route("/details", func(r chi.Router) {
		r.Get("/cost", h.costDetails)
		r.Get("/air", h.airDetails)
		r.Get("/education", h.educationDetails)
		r.Get("/safety", h.safetyDetails)
		r.Get("/health", h.healthDetails)
	})

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	return r, nil
}
