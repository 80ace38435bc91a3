// Package main is the forum points API server. It loads configuration,
// runs database migrations, wires the services and serves HTTP until
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushub/forum-api/internal/api"
	"github.com/campushub/forum-api/internal/api/admin"
	"github.com/campushub/forum-api/internal/api/forum"
	"github.com/campushub/forum-api/internal/api/notes"
	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/cache"
	"github.com/campushub/forum-api/internal/config"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/scheduler"
	"github.com/campushub/forum-api/internal/service/backfill"
	"github.com/campushub/forum-api/internal/service/leaderboard"
	"github.com/campushub/forum-api/internal/service/points"
	"github.com/campushub/forum-api/internal/service/quota"
	"github.com/campushub/forum-api/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info().Str("environment", cfg.Server.Environment).Msg("Starting forum API server")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// The leaderboard degrades to direct reads when Redis is down.
	var redisCache *cache.Cache
	if redisCache, err = cache.New(&cfg.Database.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, leaderboard caching disabled")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	catalog := badges.Default()

	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db, catalog)
	forumRepo := repository.NewForumRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	pointsService := points.NewService(pointsRepo, userRepo, catalog, log)
	quotaService := quota.NewService(userRepo, catalog, log)
	leaderboardService := leaderboard.NewService(userRepo, redisCache, catalog, log)
	backfillService := backfill.NewService(pointsService, pointsRepo, userRepo, forumRepo, log)

	schedulerService := scheduler.NewService(
		&cfg.Scheduler, pointsRepo, userRepo, noteRepo, leaderboardService, catalog, log,
	)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	handlers := api.Handlers{
		Forum: forum.NewHandler(pointsService, quotaService, leaderboardService, forumRepo, userRepo, catalog, log),
		Admin: admin.NewHandler(pointsService, backfillService, userRepo, catalog, log),
		Notes: notes.NewHandler(noteRepo, log),
	}
	router := api.NewRouter(cfg, db, userRepo, handlers, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	log.Info().Msg("Server stopped")
}
