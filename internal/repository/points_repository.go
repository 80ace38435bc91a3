package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
)

// AwardResult is the outcome of a ledger write.
type AwardResult struct {
	Points       int    `json:"points"`
	Badge        string `json:"badge"`
	BadgeChanged bool   `json:"badge_changed"`
}

// PointsRepository handles the points ledger: the running total on the
// user row plus the append-only history table.
type PointsRepository struct {
	db      *DB
	catalog badges.Catalog
}

// NewPointsRepository creates a new points repository.
func NewPointsRepository(db *DB, catalog badges.Catalog) *PointsRepository {
	return &PointsRepository{db: db, catalog: catalog}
}

// Award increments the user's point total, appends a history entry and
// re-derives the badge, all inside one transaction. The increment is
// expressed as points = points + delta at the storage layer so
// concurrent awards cannot lose updates. A stale stored badge is
// corrected here and reported as a change.
func (r *PointsRepository) Award(userID uint, delta int, action, description string, sourceRef *string) (*AwardResult, error) {
	var result AwardResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("failed to add points: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		entry := models.PointsHistory{
			UserID:      userID,
			Points:      delta,
			Action:      action,
			Description: description,
			SourceRef:   sourceRef,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append points history: %w", err)
		}

		var user models.User
		if err := tx.Select("points", "badge").First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to re-read user: %w", err)
		}

		correct := r.catalog.DeriveName(user.Points)
		result = AwardResult{Points: user.Points, Badge: correct}
		if user.Badge != correct {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("badge", correct).Error; err != nil {
				return fmt.Errorf("failed to update badge: %w", err)
			}
			result.BadgeChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasEntryForSource reports whether a history row already records the
// given source item for the user. The backfill job uses this to skip
// items it has already awarded.
func (r *PointsRepository) HasEntryForSource(userID uint, action, sourceRef string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PointsHistory{}).
		Where("user_id = ? AND action = ? AND source_ref = ?", userID, action, sourceRef).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check points history: %w", err)
	}
	return count > 0, nil
}

// HistoryForUser returns the most recent history entries for a user.
func (r *PointsRepository) HistoryForUser(userID uint, limit int) ([]models.PointsHistory, error) {
	var entries []models.PointsHistory
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list points history: %w", err)
	}
	return entries, nil
}

// ResetUser is the administrative override: zero the total, wipe the
// history and force the badge back to the lowest tier. It deliberately
// bypasses Award and its derivation logic.
func (r *PointsRepository) ResetUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"points": 0,
				"badge":  r.catalog.Derive(0).Name,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reset points: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&models.PointsHistory{}).Error; err != nil {
			return fmt.Errorf("failed to clear points history: %w", err)
		}
		return nil
	})
}

// MismatchedBadges returns users whose stored badge disagrees with the
// badge derived from their points. The nightly audit repairs these.
func (r *PointsRepository) MismatchedBadges() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	var out []models.User
	for _, u := range users {
		if u.Badge != r.catalog.DeriveName(u.Points) {
			out = append(out, u)
		}
	}
	return out, nil
}
