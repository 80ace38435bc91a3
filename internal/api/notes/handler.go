// Package notes provides REST API handlers for contributor profile
// notes: short status lines shown on a profile that expire after a day.
package notes

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/campushub/forum-api/internal/api/middleware"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// Notes are capped at 40 characters and live for 24 hours.
const (
	maxNoteLength = 40
	noteLifetime  = 24 * time.Hour
)

// NoteRepository interface for profile note storage.
type NoteRepository interface {
	ActiveNote(userID uint) (*models.ProfileNote, error)
	Replace(note *models.ProfileNote) error
	DeleteForUser(userID uint) error
}

// Handler handles profile note API requests.
type Handler struct {
	noteRepo NoteRepository
	log      *logger.Logger
}

// NewHandler creates a new notes handler.
func NewHandler(noteRepo *repository.NoteRepository, log *logger.Logger) *Handler {
	return &Handler{noteRepo: noteRepo, log: log}
}

// NewHandlerWithInterfaces creates a new notes handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(noteRepo NoteRepository, log *logger.Logger) *Handler {
	return &Handler{noteRepo: noteRepo, log: log}
}

type setNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// SetNote replaces the authenticated user's profile note. Route access
// is gated by the contributor middleware.
// PUT /api/v1/me/note.
func (h *Handler) SetNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req setNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "content is required")
		return
	}
	if utf8.RuneCountInString(req.Content) > maxNoteLength {
		h.errorResponse(c, http.StatusBadRequest, "note cannot exceed 40 characters")
		return
	}

	note := &models.ProfileNote{
		UserID:    userID,
		Content:   req.Content,
		ExpiresAt: time.Now().UTC().Add(noteLifetime),
	}
	if err := h.noteRepo.Replace(note); err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to save profile note")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to save note")
		return
	}

	h.log.Info().Uint("user_id", userID).Msg("Set profile note")
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNote removes the authenticated user's profile note.
// DELETE /api/v1/me/note.
func (h *Handler) DeleteNote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.noteRepo.DeleteForUser(userID); err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to delete profile note")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetNote returns a user's active profile note, if any.
// GET /api/v1/users/:id/note.
func (h *Handler) GetNote(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid user ID: "+idStr)
		return
	}

	note, err := h.noteRepo.ActiveNote(uint(id))
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", uint(id)).Msg("Failed to get profile note")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve note")
		return
	}
	if note == nil {
		h.errorResponse(c, http.StatusNotFound, "no active note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
