/*
Package main is the entry point for the Goroda game server.

It is responsible for loading configuration, initializing the global logging
system, bootstrapping the city directory (from Wikipedia or a Postgres
snapshot), wiring the game engine to the WebSocket hub, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a
smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"goroda/internal/app/chat"
	"goroda/internal/app/cities"
	"goroda/internal/app/db"
	"goroda/internal/app/game"
	"goroda/internal/configs"
	"goroda/internal/handler"
	"goroda/internal/pkg/logx"
	"goroda/internal/pkg/metrics"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("city_source", cfg.CitySource).
		Dur("turn_duration", cfg.TurnDuration).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory, err := buildDirectory(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to build city directory")
	}
	logx.Info("City directory ready", "cities", directory.Len())

	registry := prometheus.NewRegistry()
	gameMetrics := metrics.New(registry)

	// The hub and the engine reference each other: the hub delivers engine
	// output, the engine consumes hub input. Bind closes the loop.
	hub := chat.NewHub()
	engine := game.NewEngine(game.NewStore(), directory, hub, gameMetrics, cfg.TurnDuration)
	hub.Bind(engine)

	deps := &handler.AppDeps{
		Hub:      hub,
		Config:   cfg,
		Registry: registry,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Goroda Game Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	engine.Shutdown()
	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}

// buildDirectory assembles the city directory from the configured source.
// The wiki source scrapes the list at startup and, when a database is
// configured, persists the result so a later run can boot without network
// access to Wikipedia. The postgres source reads that snapshot.
func buildDirectory(ctx context.Context, cfg *configs.AppConfig) (*cities.Directory, error) {
	wiki := cities.NewWikiClient(cfg.CityListURL, nil)

	var entries []cities.Entry

	switch cfg.CitySource {
	case configs.CitySourceWiki:
		loaded, err := wiki.LoadCityList(ctx)
		if err != nil {
			return nil, fmt.Errorf("load city list from wiki: %w", err)
		}
		entries = loaded

		if cfg.DatabaseDSN != "" {
			if err := snapshotCities(ctx, cfg.DatabaseDSN, entries); err != nil {
				// A failed snapshot does not block serving, the scrape succeeded.
				logx.Error(err, "Failed to persist city snapshot")
			}
		}

	case configs.CitySourcePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		entries, err = cities.LoadSnapshot(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("load city snapshot: %w", err)
		}
	}

	return cities.New(entries, wiki)
}

// snapshotCities writes the freshly scraped city list to the database.
func snapshotCities(ctx context.Context, dsn string, entries []cities.Entry) error {
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := cities.SaveSnapshot(ctx, pool, entries); err != nil {
		return err
	}

	logx.Info("City snapshot persisted", "cities", len(entries))
	return nil
}
