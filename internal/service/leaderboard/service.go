// Package leaderboard ranks users by cumulative points.
package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/cache"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

const (
	cacheKey = "leaderboard:points"
	cacheTTL = 5 * time.Minute
)

// UserRepository interface for user operations.
type UserRepository interface {
	TopByPoints(limit int) ([]models.User, error)
}

// Entry represents a single entry in the leaderboard.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Badge  string `json:"badge"`
	Icon   string `json:"icon"`
}

// Service builds and caches the points leaderboard.
type Service struct {
	userRepo UserRepository
	cache    *cache.Cache
	catalog  badges.Catalog
	log      *logger.Logger
}

// NewService creates a new leaderboard service. The cache may be nil,
// in which case every call hits the database.
func NewService(userRepo *repository.UserRepository, c *cache.Cache, catalog badges.Catalog, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, cache: c, catalog: catalog, log: log}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, c *cache.Cache, catalog badges.Catalog, log *logger.Logger) *Service {
	return &Service{userRepo: userRepo, cache: c, catalog: catalog, log: log}
}

// Top returns the highest-scoring users. Results may be up to the
// cache TTL stale; points totals move slowly enough that nobody
// notices.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.cache != nil {
		var cached []Entry
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && len(cached) >= limit {
			return cached[:limit], nil
		}
		if err != nil && !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Msg("Leaderboard cache read failed")
		}
	}

	entries, err := s.build(limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, entries, cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Leaderboard cache write failed")
		}
	}
	return entries, nil
}

// Refresh rebuilds the cached leaderboard; the nightly job calls this
// so the first morning request is warm.
func (s *Service) Refresh(ctx context.Context, limit int) error {
	if s.cache == nil {
		return nil
	}
	entries, err := s.build(limit)
	if err != nil {
		return err
	}
	return s.cache.SetJSON(ctx, cacheKey, entries, cacheTTL)
}

func (s *Service) build(limit int) ([]Entry, error) {
	users, err := s.userRepo.TopByPoints(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		tier := s.catalog.Derive(u.Points)
		entries = append(entries, Entry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.FullName(),
			Points: u.Points,
			Badge:  tier.Name,
			Icon:   tier.Icon,
		})
	}
	return entries, nil
}
