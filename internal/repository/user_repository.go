package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campushub/forum-api/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// Update updates a user.
func (r *UserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListIDs returns every user id, for batch jobs.
func (r *UserRepository) ListIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.User{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}

// TopByPoints returns the highest-scoring users, for the leaderboard.
func (r *UserRepository) TopByPoints(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Order("points DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list top users: %w", err)
	}
	return users, nil
}

// SetRole updates only the role column.
func (r *UserRepository) SetRole(userID uint, role string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to set role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBadge force-sets the badge column, bypassing derivation. Admin
// override path only.
func (r *UserRepository) SetBadge(userID uint, badge string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("badge", badge)
	if res.Error != nil {
		return fmt.Errorf("failed to set badge: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetDailyCounter zeroes posts_today and stamps last_post_date.
// Called by the quota tracker on date rollover.
func (r *UserRepository) ResetDailyCounter(userID uint, today time.Time) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"posts_today":    0,
			"last_post_date": today,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reset daily counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementPostCount bumps posts_today atomically at the storage layer
// and stamps last_post_date.
func (r *UserRepository) IncrementPostCount(userID uint, today time.Time) error {
	res := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"posts_today":    gorm.Expr("posts_today + 1"),
			"last_post_date": today,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to increment post count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
