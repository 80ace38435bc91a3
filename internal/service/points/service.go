// Package points implements the points ledger: it awards points for
// forum actions, keeps the user's running total and badge in sync, and
// serves point summaries and history.
package points

import (
	"context"
	"fmt"

	"github.com/campushub/forum-api/internal/badges"
	prommetrics "github.com/campushub/forum-api/internal/metrics"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// LedgerRepository interface for ledger operations.
type LedgerRepository interface {
	Award(userID uint, delta int, action, description string, sourceRef *string) (*repository.AwardResult, error)
	HistoryForUser(userID uint, limit int) ([]models.PointsHistory, error)
	ResetUser(userID uint) error
}

// UserRepository interface for user lookups.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// Summary describes a user's standing for the profile page: total,
// current tier and how far the next tier is.
type Summary struct {
	Points       int    `json:"points"`
	Badge        string `json:"badge"`
	Icon         string `json:"icon"`
	NextBadge    string `json:"next_badge,omitempty"`
	PointsToNext int    `json:"points_to_next,omitempty"`
}

// Service is the points ledger.
type Service struct {
	ledgerRepo LedgerRepository
	userRepo   UserRepository
	catalog    badges.Catalog
	log        *logger.Logger
}

// NewService creates a new points ledger service.
func NewService(
	ledgerRepo *repository.PointsRepository,
	userRepo *repository.UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		catalog:    catalog,
		log:        log,
	}
}

// NewServiceWithInterfaces creates a new points service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	ledgerRepo LedgerRepository,
	userRepo UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		catalog:    catalog,
		log:        log,
	}
}

// Award records one real-world action for a user. The point value is
// fixed per action; callers must invoke this exactly once per action.
// Not idempotent.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) Award(ctx context.Context, userID uint, action, description string) (*repository.AwardResult, error) {
	return s.award(userID, action, description, nil)
}

// AwardForSource is Award with a dedupe reference naming the source
// item; the backfill job uses it so re-runs cannot double-award.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) AwardForSource(ctx context.Context, userID uint, action, description, sourceRef string) (*repository.AwardResult, error) {
	return s.award(userID, action, description, &sourceRef)
}

func (s *Service) award(userID uint, action, description string, sourceRef *string) (*repository.AwardResult, error) {
	delta, ok := s.catalog.PointsFor(action)
	if !ok {
		return nil, fmt.Errorf("unknown point action %q", action)
	}

	result, err := s.ledgerRepo.Award(userID, delta, action, description, sourceRef)
	if err != nil {
		s.log.Error().
			Err(err).
			Uint("user_id", userID).
			Str("action", action).
			Msg("Failed to award points")
		return nil, err
	}

	prommetrics.RecordAward(action, delta)

	if result.BadgeChanged {
		prommetrics.RecordPromotion(result.Badge)
		s.log.Info().
			Uint("user_id", userID).
			Int("points", result.Points).
			Str("badge", result.Badge).
			Msg("Badge updated")
	}

	s.log.Debug().
		Uint("user_id", userID).
		Str("action", action).
		Int("delta", delta).
		Int("points", result.Points).
		Msg("Points awarded")

	return result, nil
}

// Summary returns the user's current standing.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Summary(ctx context.Context, userID uint) (*Summary, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	tier := s.catalog.Derive(user.Points)
	summary := &Summary{
		Points: user.Points,
		Badge:  tier.Name,
		Icon:   tier.Icon,
	}
	if next, ok := s.catalog.Next(user.Points); ok {
		summary.NextBadge = next.Name
		summary.PointsToNext = next.MinPoints - user.Points
	}
	return summary, nil
}

// History returns the user's most recent point awards.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) History(ctx context.Context, userID uint, limit int) ([]models.PointsHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	// Surface NotFound rather than returning an empty log for a
	// nonexistent user.
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.HistoryForUser(userID, limit)
}

// Reset is the administrative override: wipes points, history and
// badge. It does not go through Award or derivation.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Reset(ctx context.Context, userID uint) error {
	if err := s.ledgerRepo.ResetUser(userID); err != nil {
		return err
	}
	s.log.Warn().
		Uint("user_id", userID).
		Msg("Points administratively reset")
	return nil
}
