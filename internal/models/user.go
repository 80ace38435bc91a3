// Package models defines domain models for the school forum.
package models

import (
	"time"
)

// Role values assigned by administrators, independent of points.
const (
	RoleStudent     = "student"
	RoleContributor = "contributor"
	RoleModerator   = "moderator"
	RoleAdmin       = "admin"
)

// ValidRole reports whether role is one of the assignable role values.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleContributor, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a forum member. The points, badge and daily posting
// columns are owned by the points ledger and quota tracker; everything
// else is managed by the account subsystem.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName    string     `gorm:"size:100" json:"first_name"`
	LastName     string     `gorm:"size:100" json:"last_name"`
	Role         string     `gorm:"size:50;default:student" json:"role"`
	Points       int        `gorm:"not null;default:0" json:"points"`
	Badge        string     `gorm:"size:50;default:'Forum Newbie'" json:"badge"`
	PostsToday   int        `gorm:"not null;default:0" json:"posts_today"`
	LastPostDate *time.Time `gorm:"type:date" json:"last_post_date,omitempty"`
	Status       string     `gorm:"size:20;default:active" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
