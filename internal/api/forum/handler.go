// Package forum provides REST API handlers for the points and badge
// surface of the forum: posting under the daily quota, point summaries
// and history, the badge catalog and the leaderboard.
package forum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/forum-api/internal/api/middleware"
	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/privileges"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/service/leaderboard"
	"github.com/campushub/forum-api/internal/service/points"
	"github.com/campushub/forum-api/internal/service/quota"
	"github.com/campushub/forum-api/pkg/logger"
)

// PointsService interface for ledger operations.
type PointsService interface {
	Award(ctx context.Context, userID uint, action, description string) (*repository.AwardResult, error)
	Summary(ctx context.Context, userID uint) (*points.Summary, error)
	History(ctx context.Context, userID uint, limit int) ([]models.PointsHistory, error)
}

// QuotaService interface for daily posting quota checks.
type QuotaService interface {
	CanPostToday(ctx context.Context, userID uint) (*quota.Status, error)
	IncrementPostCount(ctx context.Context, userID uint) error
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// ForumRepository interface for post writes.
type ForumRepository interface {
	CreatePost(post *models.Post) error
	SetPostLocked(id uint, locked bool) error
}

// UserRepository interface for user lookups.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// Handler handles forum API requests.
type Handler struct {
	pointsService      PointsService
	quotaService       QuotaService
	leaderboardService LeaderboardService
	forumRepo          ForumRepository
	userRepo           UserRepository
	catalog            badges.Catalog
	log                *logger.Logger
}

// NewHandler creates a new forum handler.
func NewHandler(
	pointsService *points.Service,
	quotaService *quota.Service,
	leaderboardService *leaderboard.Service,
	forumRepo *repository.ForumRepository,
	userRepo *repository.UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Handler {
	return &Handler{
		pointsService:      pointsService,
		quotaService:       quotaService,
		leaderboardService: leaderboardService,
		forumRepo:          forumRepo,
		userRepo:           userRepo,
		catalog:            catalog,
		log:                log,
	}
}

// NewHandlerWithInterfaces creates a new forum handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	pointsService PointsService,
	quotaService QuotaService,
	leaderboardService LeaderboardService,
	forumRepo ForumRepository,
	userRepo UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Handler {
	return &Handler{
		pointsService:      pointsService,
		quotaService:       quotaService,
		leaderboardService: leaderboardService,
		forumRepo:          forumRepo,
		userRepo:           userRepo,
		catalog:            catalog,
		log:                log,
	}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Board   string `json:"board"`
}

// CreatePost creates a new post for the authenticated user, enforcing
// the badge-tier daily quota and awarding points on success.
// POST /api/v1/posts.
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "title and content are required")
		return
	}

	ctx := c.Request.Context()
	status, err := h.quotaService.CanPostToday(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to check posting quota")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to check posting quota")
		return
	}
	if !status.CanPost {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": status.Reason,
			"quota": status,
		})
		return
	}

	post := &models.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Board:   req.Board,
	}
	if err := h.forumRepo.CreatePost(post); err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to create post")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	if err := h.quotaService.IncrementPostCount(ctx, userID); err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to increment daily post count")
	}

	award, err := h.pointsService.Award(ctx, userID, models.ActionCreatePost, "Created a post")
	if err != nil {
		// The post exists; the missed award is recoverable via backfill.
		h.log.Error().Err(err).Uint("user_id", userID).Uint("post_id", post.ID).Msg("Failed to award points for post")
		c.JSON(http.StatusCreated, gin.H{"post": post})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":          post,
		"points":        award.Points,
		"badge":         award.Badge,
		"badge_changed": award.BadgeChanged,
	})
}

type lockPostRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// LockPost sets or clears the locked flag on a post. Route access is
// gated by the lock-threads privilege middleware.
// PUT /api/v1/posts/:id/lock.
func (h *Handler) LockPost(c *gin.Context) {
	postID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req lockPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "locked flag is required")
		return
	}

	if err := h.forumRepo.SetPostLocked(postID, *req.Locked); err != nil {
		h.log.Error().Err(err).Uint("post_id", postID).Msg("Failed to update post lock")
		h.errorResponse(c, http.StatusNotFound, "Post not found")
		return
	}

	h.log.Info().Uint("post_id", postID).Bool("locked", *req.Locked).Msg("Updated post lock")
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "locked": *req.Locked})
}

// GetPointsSummary returns a user's points total, badge and progress
// toward the next tier.
// GET /api/v1/users/:id/points.
func (h *Handler) GetPointsSummary(c *gin.Context) {
	userID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.pointsService.Summary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get points summary")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve points summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"summary": summary,
	})
}

// GetPointsHistory returns a user's most recent ledger entries.
// GET /api/v1/users/:id/points/history?limit=50.
func (h *Handler) GetPointsHistory(c *gin.Context) {
	userID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := h.parseLimit(c, 50)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.pointsService.History(c.Request.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get points history")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve points history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":       userID,
		"history":       history,
		"total_entries": len(history),
	})
}

// GetBadgeCatalog returns every badge tier with its point range and
// daily posting quota.
// GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	tiers := h.catalog.Tiers()
	c.JSON(http.StatusOK, gin.H{
		"badges":       tiers,
		"total_badges": len(tiers),
	})
}

// GetQuota returns the authenticated user's posting allowance for the
// current UTC day.
// GET /api/v1/me/quota.
func (h *Handler) GetQuota(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	status, err := h.quotaService.CanPostToday(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get quota status")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve quota status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"quota":   status,
	})
}

// GetAccess reports which gated features the authenticated user can
// reach, combining role and badge.
// GET /api/v1/me/access.
func (h *Handler) GetAccess(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to load user for access check")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve access")
		return
	}

	subject := privileges.Subject{Role: user.Role, Badge: user.Badge}
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"role":    user.Role,
		"badge":   user.Badge,
		"access": gin.H{
			"contributor":  privileges.HasContributorPrivileges(subject),
			"lock_threads": privileges.CanLockThreads(subject),
			"chat":         privileges.CanAccessChat(subject),
			"moderator":    privileges.HasModeratorPrivileges(subject),
			"admin":        privileges.HasAdminPrivileges(subject),
		},
	})
}

// GetLeaderboard returns the top users by points.
// GET /api/v1/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// Helper functions

// parseIDParam extracts and validates a numeric ID from a URL parameter.
func (h *Handler) parseIDParam(c *gin.Context, name string) (uint, error) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, idStr)
	}
	return uint(id), nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}

	return limit, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
