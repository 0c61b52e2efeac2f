package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/myfxbook-data/internal/config"
	"github.com/rickgao/myfxbook-data/internal/database"
	"github.com/rickgao/myfxbook-data/internal/poller"
	"github.com/rickgao/myfxbook-data/internal/version"
	"github.com/rickgao/myfxbook-data/internal/writer"
	"github.com/rickgao/myfxbook-data/myfxbook"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the recorder and returns the process exit code. It never exits
// the process itself, so the deferred logout and pool close always run.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("recorder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "configs/recorder.local.yaml", "path to config file")
	envPath := fs.String("env", ".env", "optional env file loaded before the config")
	once := fs.Bool("once", false, "run a single poll cycle and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := config.LoadEnvFile(*envPath); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}

	// Validate already checked the level.
	level, _ := cfg.Logging.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		version.Group(),
		"config", *configPath,
		"api_url", cfg.API.BaseURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		return 1
	}
	logger.Info("database connected")

	client := myfxbook.NewClient(cfg.API.Email, cfg.API.Password,
		myfxbook.WithBaseURL(cfg.API.BaseURL),
		myfxbook.WithTimeout(cfg.API.Timeout),
		myfxbook.WithLogger(logger),
	)
	defer func() {
		logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer logoutCancel()
		if _, err := client.Logout(logoutCtx); err != nil {
			logger.Warn("logout failed", "error", err)
		}
	}()

	w := writer.New(pool, logger)
	p := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
		Symbols:     cfg.Poller.Symbols,
		Accounts:    cfg.Poller.Accounts,
		HistoryDays: cfg.Poller.HistoryDays,
	}, client, w, logger)

	if *once {
		snap, err := p.PollOnce(ctx)
		if err != nil {
			logger.Error("poll failed", "error", err)
			return 1
		}
		logger.Info("snapshot recorded", "snapshot_id", snap.ID)
		return 0
	}

	var healthServer *http.Server
	if cfg.Health.Port > 0 {
		healthServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
			Handler: createHealthHandler(pool, p, w),
		}
		go func() {
			logger.Info("starting health server", "port", cfg.Health.Port)
			if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Error("health server error", "error", err)
			}
		}()
	}

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		return 1
	}

	logger.Info("recorder running")

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller did not stop cleanly", "error", err)
	}
	if healthServer != nil {
		stopHealthServer(shutdownCtx, healthServer, logger)
	}

	logger.Info("recorder stopped",
		"poller", p.Stats(),
		"writer", w.Stats(),
	)
	return 0
}

// stopHealthServer shuts srv down, logging rather than returning failures.
func stopHealthServer(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("health server shutdown failed", "error", err)
	}
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(pool *pgxpool.Pool, p *poller.Poller, w *writer.Writer) http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)

	router.Get("/health", func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		stats := p.Stats()
		health.Components["poller"] = stats
		health.Components["writer"] = w.Stats()
		if stats.Cycles == 0 && health.Status == "healthy" {
			health.Status = "degraded"
		}

		rw.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			rw.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(rw).Encode(health)
	})

	router.Get("/stats", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(map[string]any{
			"poller": p.Stats(),
			"writer": w.Stats(),
		})
	})

	return router
}
