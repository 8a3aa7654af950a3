package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"complaint-service/internal/auth"
	"complaint-service/internal/client"
	"complaint-service/internal/config"
	"complaint-service/internal/db"
	httphandler "complaint-service/internal/http"
	"complaint-service/internal/http/middleware"
	"complaint-service/internal/logger"
	"complaint-service/internal/notify"
	"complaint-service/internal/repository"
	"complaint-service/internal/scheduler"
	"complaint-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	complaintRepo := repository.NewComplaintRepository(database)
	upvoteRepo := repository.NewUpvoteRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	eventRepo := repository.NewEventRepository(database)

	directoryClient := client.NewDirectoryClient(cfg)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Redis.Addr != "" {
		redisNotifier := notify.NewRedisNotifier(cfg)
		defer redisNotifier.Close()
		notifier = redisNotifier
	}

	complaintService := service.NewComplaintService(
		complaintRepo,
		eventRepo,
		directoryClient,
		notifier,
		cfg.Scheduler.DefaultDeadlineDays,
		appLogger,
	)
	upvoteService := service.NewUpvoteService(complaintRepo, upvoteRepo)
	ratingService := service.NewRatingService(complaintRepo, ratingRepo, eventRepo, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	escalationScheduler := scheduler.New(
		complaintService,
		cfg.Scheduler.Interval,
		cfg.Scheduler.ValidationSLA,
		appLogger,
	)
	go escalationScheduler.Run(ctx)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(complaintService, upvoteService, ratingService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting complaint service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
