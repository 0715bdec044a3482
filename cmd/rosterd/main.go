package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parishops/rosterd/internal/adapters/http/api"
	"github.com/parishops/rosterd/internal/adapters/repository"
	app "github.com/parishops/rosterd/internal/app"
	"github.com/parishops/rosterd/internal/config"
	"github.com/parishops/rosterd/internal/domain/roles"
	"github.com/parishops/rosterd/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// the service registers its own registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Connect the collaborator stores.
	db, err := repository.Open(cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMaxIdle)
	if err != nil {
		os.Stderr.WriteString("failed to connect to database: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = db.Close()
	}()

	directoryStore := repository.NewDirectoryStore(db, log.Named("directory"))
	calendarStore := repository.NewCalendarStore(db, log.Named("calendar"))
	scheduleStore := repository.NewScheduleStore(db, log.Named("schedule"))

	// Create the assembler service over the three collaborators.
	svc := app.New(
		directoryStore,
		calendarStore,
		scheduleStore,
		app.WithLogger(log),
		app.WithPrimaryServiceTime(cfg.PrimaryServiceTime),
		app.WithTeamCount(cfg.RotationTeamCount),
		app.WithFallbackRoster(fallbackRoster(cfg.FallbackRoster)),
		app.WithCollationLocale(cfg.CollationLocale),
	)

	// One-time rotation seed, guarded by store emptiness.
	if cfg.SeedOnStart {
		if n, err := svc.SeedRotation(ctx); err != nil {
			log.Error(ctx, "rotation seed failed", logger.Error(err))
		} else if n == 0 {
			log.Info(ctx, "rotation seed skipped; schedule store not empty")
		}
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// fallbackRoster converts the config's string-keyed roster to role
// keys, dropping unknown tokens.
func fallbackRoster(raw map[string][]string) map[roles.Key][]string {
	out := make(map[roles.Key][]string, len(raw))
	for token, names := range raw {
		if k, ok := roles.Known(token); ok {
			out[k] = names
		}
	}
	return out
}
