package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/forum-api/internal/models"
)

// NoteRepository handles contributor profile notes.
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// ActiveNote returns the user's current unexpired note, or nil.
func (r *NoteRepository) ActiveNote(userID uint) (*models.ProfileNote, error) {
	var note models.ProfileNote
	err := r.db.
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile note: %w", err)
	}
	return &note, nil
}

// Replace removes any existing notes for the user and stores the new
// one in their place.
func (r *NoteRepository) Replace(note *models.ProfileNote) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", note.UserID).
			Delete(&models.ProfileNote{}).Error; err != nil {
			return fmt.Errorf("failed to clear old notes: %w", err)
		}
		if err := tx.Create(note).Error; err != nil {
			return fmt.Errorf("failed to create profile note: %w", err)
		}
		return nil
	})
}

// DeleteForUser removes the user's notes.
func (r *NoteRepository) DeleteForUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).
		Delete(&models.ProfileNote{}).Error; err != nil {
		return fmt.Errorf("failed to delete profile notes: %w", err)
	}
	return nil
}

// PurgeExpired deletes notes past their expiry; run by the nightly
// maintenance job. Returns the number removed.
func (r *NoteRepository) PurgeExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).
		Delete(&models.ProfileNote{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge expired notes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
