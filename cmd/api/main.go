// Package main provides the entry point for the matchup comparison API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/calibration"
	"github.com/yourusername/matchup-engine/internal/config"
	"github.com/yourusername/matchup-engine/internal/database"
	"github.com/yourusername/matchup-engine/internal/engine"
	"github.com/yourusername/matchup-engine/internal/health"
	"github.com/yourusername/matchup-engine/internal/logger"
	"github.com/yourusername/matchup-engine/internal/repository"
	"github.com/yourusername/matchup-engine/internal/scheduler"
	"github.com/yourusername/matchup-engine/internal/server"
	"github.com/yourusername/matchup-engine/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Matchup engine API starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the ranking pipeline's store
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	teamRepo := repository.NewPostgresTeamRankingRepository(db)
	gameRepo := repository.NewPostgresGameRepository(db)

	// Initialize calibration. A local directory wins over a remote source.
	var source calibration.Source
	if cfg.Calibration.Dir != "" {
		source = calibration.NewFileSource(cfg.Calibration.Dir)
		appLog.WithField("dir", cfg.Calibration.Dir).Info("Using file calibration source")
	} else {
		httpCfg := calibration.DefaultHTTPSourceConfig(cfg.Calibration.BaseURL)
		httpCfg.APIKey = cfg.Calibration.APIKey
		httpCfg.Timeout = time.Duration(cfg.Calibration.TimeoutSeconds) * time.Second
		httpCfg.MaxRetries = cfg.Calibration.MaxRetries
		httpCfg.RateLimit = cfg.Calibration.RateLimit
		source = calibration.NewHTTPSource(httpCfg)
		appLog.WithField("base_url", cfg.Calibration.BaseURL).Info("Using HTTP calibration source")
	}
	calib := calibration.NewProvider(source, appLog)

	// Build the engine and service
	predictor := engine.NewPredictor(calib, appLog)
	predictor.SetFormWindow(cfg.Engine.FormWindow)
	explainer := engine.NewExplainer(calib)

	cache := service.NewComparisonCache(
		time.Duration(cfg.Engine.CacheTTLSeconds)*time.Second,
		cfg.Engine.CacheMaxSize,
	)
	comparison := service.NewComparisonService(teamRepo, gameRepo, predictor, explainer, cache, appLog)

	// Start the health server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Port:        fmt.Sprintf("%d", cfg.Server.HealthPort),
		Logger:      appLog,
		DB:          db,
		Calibration: calib,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start background maintenance if enabled
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(comparison, appLog)
		if err := sched.ScheduleCacheFlush(cfg.Scheduler.CacheFlushCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule cache flush")
		}
		if len(cfg.Scheduler.WatchedPairs) > 0 {
			pairs, err := scheduler.ParseWatchedPairs(cfg.Scheduler.WatchedPairs)
			if err != nil {
				appLog.WithError(err).Fatal("Invalid watched pairs configuration")
			}
			if err := sched.ScheduleWarmup(cfg.Scheduler.WarmupIntervalSecs, pairs); err != nil {
				appLog.WithError(err).Fatal("Failed to schedule cache warmup")
			}
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")
	}

	// Start the API server
	apiServer := server.NewServer(&cfg.Server, comparison, appLog)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start(ctx)
	}()

	healthServer.SetReady(true)
	appLog.WithField("port", cfg.Server.Port).Info("Matchup engine API running")

	// Wait for shutdown signal or server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			appLog.WithError(err).Error("API server failed")
		}
	}

	// Graceful shutdown
	healthServer.SetReady(false)
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	time.Sleep(1 * time.Second)

	appLog.Info("Matchup engine API shut down successfully")
}
