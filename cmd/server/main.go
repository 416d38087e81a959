package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewroster-service/internal/domain/entity"
	"crewroster-service/internal/infrastructure/config"
	"crewroster-service/internal/infrastructure/persistence"
	"crewroster-service/internal/interface/handlers"
	"crewroster-service/internal/interface/repository"
	"crewroster-service/internal/usecase"
	"crewroster-service/pkg/logger"
	"crewroster-service/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Crew Roster Service", "version", cfg.AppVersion)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Set up the data directory
	dataDir, err := persistence.EnsureDataDir(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to set up data dir", "error", err)
	}
	log.Info("Using data dir", "path", dataDir)

	m := metrics.NewMetrics("crewroster")

	// Set up repositories
	rosterRepo := repository.NewFileRosterRepository(dataDir, log)
	scheduleRepo := repository.NewScheduleAPIRepository(cfg.ParserAPIURL, cfg.ImportTimeout, log)
	userRepo := repository.NewFileUserRepository(dataDir)

	// Set up use cases
	rosterManager := usecase.NewRosterManager(scheduleRepo, rosterRepo, m, log)
	userService := usecase.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)

	rosterManager.Subscribe(func(userID string, days []entity.RosterDay) {
		log.Debug("Roster changed", "userId", userID, "days", len(days))
	})

	// Set up HTTP surface
	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Use(chimw.RequestID)

	handlers.RegisterRoutes(router,
		handlers.NewUserHandler(userService, log),
		handlers.NewRosterHandler(rosterManager, log),
		userService,
		cfg.AdminToken,
	)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown error", "error", err)
	}
}
