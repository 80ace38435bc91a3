// Package admin provides REST API handlers for administrative
// operations: resetting accounts, overriding badges and roles, and
// running the points backfill. Routes are gated by role middleware.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/service/backfill"
	"github.com/campushub/forum-api/internal/service/points"
	"github.com/campushub/forum-api/pkg/logger"
)

// PointsService interface for ledger resets.
type PointsService interface {
	Reset(ctx context.Context, userID uint) error
}

// BackfillService interface for the retroactive points recount.
type BackfillService interface {
	Run(ctx context.Context) (*backfill.Stats, error)
}

// UserRepository interface for badge and role overrides.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	SetBadge(userID uint, badge string) error
	SetRole(userID uint, role string) error
}

// Handler handles administrative API requests.
type Handler struct {
	pointsService   PointsService
	backfillService BackfillService
	userRepo        UserRepository
	catalog         badges.Catalog
	log             *logger.Logger
}

// NewHandler creates a new admin handler.
func NewHandler(
	pointsService *points.Service,
	backfillService *backfill.Service,
	userRepo *repository.UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Handler {
	return &Handler{
		pointsService:   pointsService,
		backfillService: backfillService,
		userRepo:        userRepo,
		catalog:         catalog,
		log:             log,
	}
}

// NewHandlerWithInterfaces creates a new admin handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	pointsService PointsService,
	backfillService BackfillService,
	userRepo UserRepository,
	catalog badges.Catalog,
	log *logger.Logger,
) *Handler {
	return &Handler{
		pointsService:   pointsService,
		backfillService: backfillService,
		userRepo:        userRepo,
		catalog:         catalog,
		log:             log,
	}
}

// ResetPoints zeroes a user's points, drops the badge to the lowest
// tier and wipes their ledger history.
// POST /api/v1/admin/users/:id/points/reset.
func (h *Handler) ResetPoints(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.pointsService.Reset(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to reset points")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to reset points")
		return
	}

	h.log.Info().Uint("user_id", userID).Msg("Reset user points")
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"points":  0,
		"badge":   h.catalog.DeriveName(0),
	})
}

type setBadgeRequest struct {
	Badge string `json:"badge" binding:"required"`
}

// SetBadge overrides a user's badge to any tier in the catalog. The
// nightly audit will revert it if it no longer matches their points.
// PUT /api/v1/admin/users/:id/badge.
func (h *Handler) SetBadge(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req setBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "badge is required")
		return
	}

	if !h.catalog.ValidName(req.Badge) {
		h.errorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("invalid badge: %s (valid: %s)", req.Badge, strings.Join(h.badgeNames(), ", ")))
		return
	}

	if err := h.userRepo.SetBadge(userID, req.Badge); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to set badge")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to set badge")
		return
	}

	h.log.Info().Uint("user_id", userID).Str("badge", req.Badge).Msg("Overrode user badge")
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "badge": req.Badge})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetRole assigns a user's role.
// PUT /api/v1/admin/users/:id/role.
func (h *Handler) SetRole(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "role is required")
		return
	}

	if !models.ValidRole(req.Role) {
		h.errorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("invalid role: %s (valid: student, contributor, moderator, admin)", req.Role))
		return
	}

	if err := h.userRepo.SetRole(userID, req.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to set role")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to set role")
		return
	}

	h.log.Info().Uint("user_id", userID).Str("role", req.Role).Msg("Assigned user role")
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": req.Role})
}

// RunBackfill recounts points from existing forum content. Safe to run
// repeatedly; already-credited items are skipped.
// POST /api/v1/admin/backfill.
func (h *Handler) RunBackfill(c *gin.Context) {
	stats, err := h.backfillService.Run(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Backfill run failed")
		h.errorResponse(c, http.StatusInternalServerError, "Backfill failed")
		return
	}

	h.log.Info().
		Int("users", stats.Users).
		Int("awarded", stats.Awarded).
		Int("skipped", stats.Skipped).
		Msg("Backfill completed")

	c.JSON(http.StatusOK, gin.H{
		"users":        stats.Users,
		"awarded":      stats.Awarded,
		"skipped":      stats.Skipped,
		"completed_at": time.Now().UTC(),
	})
}

// GetUser returns a user's account record.
// GET /api/v1/admin/users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.errorResponse(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Helper functions

func (h *Handler) badgeNames() []string {
	tiers := h.catalog.Tiers()
	names := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		names = append(names, tier.Name)
	}
	return names
}

// parseUserID extracts and validates the user ID from the URL parameter.
func (h *Handler) parseUserID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %s", idStr)
	}
	return uint(id), nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
