package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/cityscore/internal/config"
	"github.com/UnknownOlympus/cityscore/internal/enrich"
	"github.com/UnknownOlympus/cityscore/internal/geocoding"
	"github.com/UnknownOlympus/cityscore/internal/metrics"
	"github.com/UnknownOlympus/cityscore/internal/reference"
	"github.com/UnknownOlympus/cityscore/internal/scorers"
	"github.com/UnknownOlympus/cityscore/internal/service"
	"github.com/UnknownOlympus/cityscore/internal/upstream"
	"github.com/UnknownOlympus/cityscore/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Load the reference tables once; they are read-only afterwards.
	countries, err := reference.LoadCountries(cfg.Data.CountriesFile)
	if err != nil {
		log.Fatalf("Failed to load country table: %v", err)
	}

	// A missing crime table only disables the safety category.
	crimeTable, err := reference.LoadCrimeTable(cfg.Data.CrimeFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load crime table", "path", cfg.Data.CrimeFile, "error", err)
	}

	// Create geocoding provider using factory pattern based on configuration
	// This allows runtime selection between different providers (Nominatim, Google, OpenCage).
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Timeout:   cfg.UpstreamTimeout,
		Logger:    logger,
		Metrics:   appMetrics,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)

	if err = os.MkdirAll(cfg.Images.Dir, 0o755); err != nil {
		logger.ErrorContext(ctx, "Failed to create image cache dir", "dir", cfg.Images.Dir, "error", err)
	}

	httpClient := upstream.NewHTTPClient(cfg.UpstreamTimeout)

	svc := service.NewCityScoreService(logger, service.Dependencies{
		Geocoder:  geoProvider,
		Countries: countries,

		Cost:      scorers.NewCostOfLivingScorer(httpClient, cfg.Keys.RapidAPI, logger, appMetrics),
		Air:       scorers.NewAirQualityScorer(httpClient, cfg.Keys.OpenWeatherMap, logger, appMetrics),
		Education: scorers.NewEducationScorer(httpClient, logger, appMetrics),
		Safety:    scorers.NewSafetyScorer(crimeTable, logger),
		Health:    scorers.NewHealthScorer(httpClient, logger, appMetrics),

		Images: enrich.NewImageCache(
			cfg.Images.Dir, cfg.Images.PublicURL, cfg.Keys.Unsplash, httpClient, logger, appMetrics,
		),
		Weather:    enrich.NewWeatherClient(httpClient, cfg.Keys.OpenWeatherMap, logger, appMetrics),
		Summaries:  enrich.NewSummaryClient(httpClient, cfg.WikipediaLang, logger, appMetrics),
		Population: enrich.NewPopulationClient(httpClient, cfg.Keys.RapidAPI, logger, appMetrics),
	}, appMetrics, cfg.Images.Default)

	router, err := web.NewRouter(svc, logger, appMetrics, web.Options{
		StaticDir:      cfg.HTTP.StaticDir,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	readHeaderTimeout := 5 * time.Second
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.HTTP.RequestTimeout + readHeaderTimeout,
	}

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, healthCheck(crimeTable, cfg.Images.Dir), cfg.MonitoringPort)

	go func() {
		logger.InfoContext(ctx, "Starting http server", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "HTTP server shutdown failed", "error", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// healthCheck reports whether the crime table is loaded and the image cache dir is reachable.
func healthCheck(crimeTable *reference.CrimeTable, imageDir string) func() error {
	return func() error {
		if crimeTable == nil {
			return errors.New("crime table is not loaded")
		}
		if _, err := os.Stat(imageDir); err != nil {
			return fmt.Errorf("image cache dir is unavailable: %w", err)
		}
		return nil
	}
}

// newMonitoringHandler serves /healthz and /metrics.
func newMonitoringHandler(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	check func() error,
) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := check(); err != nil {
			status, body = http.StatusServiceUnavailable, err.Error()
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - check: The readiness check behind /healthz.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	check func() error,
	port int,
) {
	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newMonitoringHandler(ctx, log, reg, check),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
