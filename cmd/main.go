package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"whereabouts/db"
	"whereabouts/internal/character"
	"whereabouts/internal/config"
	"whereabouts/internal/location"
	"whereabouts/internal/web"
	"whereabouts/middleware"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("failed to connect to SQLite")
	}
	defer sqliteDB.Close()

	if err := db.InitializeSchema(sqliteDB); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database schema")
	}
	logger.Info().Str("path", cfg.SQLitePath).Msg("database ready")

	// Create repositories
	repoFactory := db.NewRepositoryFactory(sqliteDB)
	characterRepo := repoFactory.NewCharacterRepository()
	locationRepo := repoFactory.NewLocationRepository()

	// Initialize services with repositories
	characterService := character.NewCharacterService(characterRepo)
	locationService := location.NewLocationService(locationRepo, characterRepo)

	characterHandlers := character.NewCharacterHandlers(characterService, logger)
	locationHandlers := location.NewLocationHandlers(locationService, logger)

	router := web.SetupRoutes(characterHandlers, locationHandlers)
	handler := middleware.SetupCORS(cfg.AllowedOrigin)(middleware.RequestLogging(logger)(router))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	waitForShutdown(server, logger)
}

func waitForShutdown(server *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
