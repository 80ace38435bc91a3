// Package main is the one-shot points backfill. It recounts points
// from existing forum content for every user, skipping anything the
// ledger already credited, so it is safe to re-run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/config"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/service/backfill"
	"github.com/campushub/forum-api/internal/service/points"
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

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	catalog := badges.Default()
	userRepo := repository.NewUserRepository(db)
	pointsRepo := repository.NewPointsRepository(db, catalog)
	forumRepo := repository.NewForumRepository(db)

	pointsService := points.NewService(pointsRepo, userRepo, catalog, log)
	backfillService := backfill.NewService(pointsService, pointsRepo, userRepo, forumRepo, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("Starting points backfill")
	stats, err := backfillService.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Backfill failed")
	}

	log.Info().
		Int("users", stats.Users).
		Int("awarded", stats.Awarded).
		Int("skipped", stats.Skipped).
		Msg("Backfill completed")
}
