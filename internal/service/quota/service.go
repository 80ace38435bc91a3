// Package quota enforces the per-badge daily posting limit. Days are
// UTC calendar days everywhere: the stored last_post_date and the
// "today" comparison both use truncated UTC dates, so the midnight
// boundary is the same for every user regardless of locale.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/forum-api/internal/badges"
	prommetrics "github.com/campushub/forum-api/internal/metrics"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// UserRepository interface for quota state operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	ResetDailyCounter(userID uint, today time.Time) error
	IncrementPostCount(userID uint, today time.Time) error
}

// Status is the outcome of a quota check.
type Status struct {
	CanPost    bool   `json:"can_post"`
	PostsToday int    `json:"posts_today"`
	Limit      int    `json:"limit"`
	Badge      string `json:"badge"`
	Reason     string `json:"reason,omitempty"`
}

// Service is the daily quota tracker.
type Service struct {
	userRepo UserRepository
	catalog  badges.Catalog
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new quota service.
func NewService(userRepo *repository.UserRepository, catalog badges.Catalog, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, catalog: catalog, log: log, now: time.Now}
}

// NewServiceWithInterfaces creates a new quota service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, catalog badges.Catalog, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, catalog: catalog, log: log, now: time.Now}
}

// WithClock overrides the time source; tests use it to cross days.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today returns the current UTC calendar date with no time component.
func (s *Service) Today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// CanPostToday reports whether the user may create another post today.
// Crossing into a new day resets the stored counter immediately; the
// check itself never consumes quota.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) CanPostToday(ctx context.Context, userID uint) (*Status, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	badge := user.Badge
	if badge == "" {
		badge = s.catalog.Derive(0).Name
	}
	limit := s.catalog.QuotaFor(badge)
	today := s.Today()

	if user.LastPostDate == nil || !sameDay(*user.LastPostDate, today) {
		if err := s.userRepo.ResetDailyCounter(userID, today); err != nil {
			return nil, err
		}
		s.log.Debug().
			Uint("user_id", userID).
			Str("badge", badge).
			Msg("Daily post counter reset")
		return &Status{CanPost: true, PostsToday: 0, Limit: limit, Badge: badge}, nil
	}

	status := &Status{
		CanPost:    user.PostsToday < limit,
		PostsToday: user.PostsToday,
		Limit:      limit,
		Badge:      badge,
	}
	if !status.CanPost {
		status.Reason = fmt.Sprintf("Daily limit reached (%d posts/day for %s)", limit, badge)
		prommetrics.RecordQuotaRejection(badge)
		s.log.Info().
			Uint("user_id", userID).
			Int("posts_today", user.PostsToday).
			Int("limit", limit).
			Str("badge", badge).
			Msg("Post blocked by daily quota")
	}
	return status, nil
}

// IncrementPostCount counts one created post against today's quota.
// Call exactly once per post, after creation succeeded; the check and
// the increment are deliberately separate so failed attempts are free.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) IncrementPostCount(ctx context.Context, userID uint) error {
	return s.userRepo.IncrementPostCount(userID, s.Today())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
