package models

import (
	"time"
)

// ProfileNote is a short status note shown on a user's profile,
// a perk reserved for contributors. Notes expire after 24 hours and a
// user has at most one active note.
type ProfileNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content   string    `gorm:"size:40;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName specifies the table name for ProfileNote model.
func (ProfileNote) TableName() string {
	return "profile_notes"
}

// Active reports whether the note has not yet expired.
func (n *ProfileNote) Active() bool {
	return time.Now().Before(n.ExpiresAt)
}
