// Package scheduler runs nightly maintenance: repairing stale badges,
// purging expired profile notes and warming the leaderboard cache.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/campushub/forum-api/internal/config"
	prommetrics "github.com/campushub/forum-api/internal/metrics"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/pkg/logger"
)

// LedgerRepository interface for audit operations.
type LedgerRepository interface {
	MismatchedBadges() ([]models.User, error)
}

// UserRepository interface for badge repairs.
type UserRepository interface {
	SetBadge(userID uint, badge string) error
}

// NoteRepository interface for note cleanup.
type NoteRepository interface {
	PurgeExpired() (int64, error)
}

// LeaderboardService interface for cache warming.
type LeaderboardService interface {
	Refresh(ctx context.Context, limit int) error
}

// BadgeDeriver derives the correct badge from a point total.
type BadgeDeriver interface {
	DeriveName(points int) string
}

// Service schedules the maintenance jobs.
type Service struct {
	config      *config.SchedulerConfig
	ledgerRepo  LedgerRepository
	userRepo    UserRepository
	noteRepo    NoteRepository
	leaderboard LeaderboardService
	deriver     BadgeDeriver
	log         *logger.Logger
	cron        *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.SchedulerConfig,
	ledgerRepo LedgerRepository,
	userRepo UserRepository,
	noteRepo NoteRepository,
	leaderboard LeaderboardService,
	deriver BadgeDeriver,
	log *logger.Logger,
) *Service {
	return &Service{
		config:      cfg,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		leaderboard: leaderboard,
		deriver:     deriver,
		log:         log,
	}
}

// Start registers and starts the cron jobs.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.config.AuditSchedule, func() {
		s.RunMaintenance(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	next := ""
	if len(entries) > 0 {
		next = entries[0].Next.String()
	}
	s.log.Info().
		Str("schedule", s.config.AuditSchedule).
		Str("timezone", s.config.Timezone).
		Str("next_run", next).
		Msg("Scheduler started")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// RunMaintenance executes one maintenance pass. Exported so the
// backfill command can trigger it ad hoc.
func (s *Service) RunMaintenance(ctx context.Context) {
	s.auditBadges()
	s.purgeNotes()
	s.warmLeaderboard(ctx)
}

// auditBadges repairs users whose stored badge no longer matches their
// points, which only happens after out-of-band edits.
func (s *Service) auditBadges() {
	stale, err := s.ledgerRepo.MismatchedBadges()
	if err != nil {
		s.log.Error().Err(err).Msg("Badge audit failed")
		return
	}
	prommetrics.SetAuditMismatches(len(stale))

	for _, u := range stale {
		correct := s.deriver.DeriveName(u.Points)
		if err := s.userRepo.SetBadge(u.ID, correct); err != nil {
			s.log.Error().Err(err).Uint("user_id", u.ID).Msg("Failed to repair badge")
			continue
		}
		s.log.Warn().
			Uint("user_id", u.ID).
			Str("stored", u.Badge).
			Str("derived", correct).
			Msg("Repaired stale badge")
	}

	if len(stale) == 0 {
		s.log.Info().Msg("Badge audit found no mismatches")
	}
}

func (s *Service) purgeNotes() {
	purged, err := s.noteRepo.PurgeExpired()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to purge expired notes")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("Expired profile notes removed")
	}
}

func (s *Service) warmLeaderboard(ctx context.Context) {
	if s.leaderboard == nil {
		return
	}
	if err := s.leaderboard.Refresh(ctx, 50); err != nil {
		s.log.Error().Err(err).Msg("Failed to warm leaderboard cache")
	}
}
