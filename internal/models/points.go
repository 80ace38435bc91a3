package models

import (
	"time"
)

// Point-earning actions recorded in the history log.
const (
	ActionCreatePost  = "create_post"
	ActionCreateReply = "create_reply"
	ActionReact       = "react"
	ActionBookmark    = "bookmark"
	ActionFollowUser  = "follow_user"
)

// PointsHistory is an append-only record of a single point award.
// SourceRef identifies the real-world item that earned the points
// (e.g. "post:42"); the unique index over (user_id, action, source_ref)
// is what makes the backfill job safe to re-run.
type PointsHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_points_source,priority:1" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Points      int       `gorm:"not null" json:"points"`
	Action      string    `gorm:"size:50;not null;uniqueIndex:idx_points_source,priority:2" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	SourceRef   *string   `gorm:"size:100;uniqueIndex:idx_points_source,priority:3" json:"source_ref,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for PointsHistory model.
func (PointsHistory) TableName() string {
	return "points_history"
}
