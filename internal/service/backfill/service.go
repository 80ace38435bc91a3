// Package backfill recomputes point totals from the forum content
// tables. It is a repair/bootstrap job run out-of-band, never from
// request handlers. Every award carries a source reference, and items
// already present in the history are skipped, so repeated runs are
// safe no-ops for anything previously recorded.
package backfill

import (
	"context"
	"fmt"

	prommetrics "github.com/campushub/forum-api/internal/metrics"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// LedgerService interface for point awards.
type LedgerService interface {
	AwardForSource(ctx context.Context, userID uint, action, description, sourceRef string) (*repository.AwardResult, error)
}

// LedgerRepository interface for dedupe lookups.
type LedgerRepository interface {
	HasEntryForSource(userID uint, action, sourceRef string) (bool, error)
}

// UserRepository interface for user enumeration.
type UserRepository interface {
	ListIDs() ([]uint, error)
}

// ForumRepository interface for the content read-model.
type ForumRepository interface {
	PostsByUser(userID uint) ([]models.Post, error)
	RepliesByUser(userID uint) ([]models.Reply, error)
	ReactionsByUser(userID uint) ([]models.Reaction, error)
	BookmarksByUser(userID uint) ([]models.Bookmark, error)
	FollowsByUser(userID uint) ([]models.Follow, error)
}

// Stats summarizes one backfill run.
type Stats struct {
	Users   int
	Awarded int
	Skipped int
}

// Service runs the points backfill.
type Service struct {
	ledger     LedgerService
	ledgerRepo LedgerRepository
	userRepo   UserRepository
	forumRepo  ForumRepository
	log        *logger.Logger
}

// NewService creates a new backfill service.
func NewService(
	ledger LedgerService,
	ledgerRepo *repository.PointsRepository,
	userRepo *repository.UserRepository,
	forumRepo *repository.ForumRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		ledger:     ledger,
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		forumRepo:  forumRepo,
		log:        log,
	}
}

// NewServiceWithInterfaces creates a new backfill service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	ledger LedgerService,
	ledgerRepo LedgerRepository,
	userRepo UserRepository,
	forumRepo ForumRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		ledger:     ledger,
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		forumRepo:  forumRepo,
		log:        log,
	}
}

// Run processes every user. A per-item failure is logged and skipped
// so one bad row cannot abort the whole repair.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	ids, err := s.userRepo.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.log.Info().Int("users", len(ids)).Msg("Starting points backfill")
	stats := &Stats{Users: len(ids)}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.backfillUser(ctx, id, stats); err != nil {
			s.log.Error().Err(err).Uint("user_id", id).Msg("Failed to backfill user")
		}
	}

	s.log.Info().
		Int("users", stats.Users).
		Int("awarded", stats.Awarded).
		Int("skipped", stats.Skipped).
		Msg("Points backfill complete")

	return stats, nil
}

type item struct {
	action      string
	description string
	sourceRef   string
}

func (s *Service) backfillUser(ctx context.Context, userID uint, stats *Stats) error {
	var items []item

	posts, err := s.forumRepo.PostsByUser(userID)
	if err != nil {
		return err
	}
	for _, p := range posts {
		items = append(items, item{
			action:      models.ActionCreatePost,
			description: fmt.Sprintf("Backfill: Created post %q", p.Title),
			sourceRef:   fmt.Sprintf("post:%d", p.ID),
		})
	}

	replies, err := s.forumRepo.RepliesByUser(userID)
	if err != nil {
		return err
	}
	for _, r := range replies {
		items = append(items, item{
			action:      models.ActionCreateReply,
			description: fmt.Sprintf("Backfill: Created reply #%d", r.ID),
			sourceRef:   fmt.Sprintf("reply:%d", r.ID),
		})
	}

	reactions, err := s.forumRepo.ReactionsByUser(userID)
	if err != nil {
		return err
	}
	for _, re := range reactions {
		items = append(items, item{
			action:      models.ActionReact,
			description: "Backfill: Reacted to " + reactionTarget(re),
			sourceRef:   "reaction:" + reactionTarget(re),
		})
	}

	bookmarks, err := s.forumRepo.BookmarksByUser(userID)
	if err != nil {
		return err
	}
	for _, b := range bookmarks {
		items = append(items, item{
			action:      models.ActionBookmark,
			description: "Backfill: Bookmarked post",
			sourceRef:   fmt.Sprintf("bookmark:%d", b.ID),
		})
	}

	follows, err := s.forumRepo.FollowsByUser(userID)
	if err != nil {
		return err
	}
	for _, f := range follows {
		items = append(items, item{
			action:      models.ActionFollowUser,
			description: "Backfill: Followed user",
			sourceRef:   fmt.Sprintf("follow:%d", f.ID),
		})
	}

	for _, it := range items {
		exists, err := s.ledgerRepo.HasEntryForSource(userID, it.action, it.sourceRef)
		if err != nil {
			return err
		}
		if exists {
			stats.Skipped++
			prommetrics.RecordBackfill(it.action, "skipped")
			continue
		}
		if _, err := s.ledger.AwardForSource(ctx, userID, it.action, it.description, it.sourceRef); err != nil {
			return err
		}
		stats.Awarded++
		prommetrics.RecordBackfill(it.action, "awarded")
	}

	return nil
}

func reactionTarget(r models.Reaction) string {
	if r.PostID != nil {
		return fmt.Sprintf("post:%d", *r.PostID)
	}
	if r.ReplyID != nil {
		return fmt.Sprintf("reply:%d", *r.ReplyID)
	}
	return "unknown"
}
