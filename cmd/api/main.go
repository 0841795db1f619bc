package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/Dan9191/cashcompass/internal/handler"
	"github.com/Dan9191/cashcompass/internal/integrations/gemini"
	"github.com/Dan9191/cashcompass/internal/repository"
	"github.com/Dan9191/cashcompass/internal/scheduler"
	"github.com/Dan9191/cashcompass/internal/service"
	"github.com/Dan9191/cashcompass/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	repo := repository.NewRepository(db)
	if err := repo.RunMigrations(ctx); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	// Initialize layers
	var advisor service.Advisor
	if cfg.GeminiAPIKey != "" {
		advisor = gemini.NewClient(cfg, logger)
	} else {
		logger.Warn("GEMINI_API_KEY is not set, AI advisor disabled")
	}
	svc := service.NewService(repo, logger, cfg, advisor, email.NewSender(cfg, logger))
	h := handler.NewHandler(svc, logger)

	if cfg.ReminderSchedule != "" {
		reminders, err := scheduler.New(cfg.ReminderSchedule, svc, logger)
		if err != nil {
			logger.Fatalf("Failed to schedule debt reminders: %v", err)
		}
		reminders.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			reminders.Stop(stopCtx)
		}()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
