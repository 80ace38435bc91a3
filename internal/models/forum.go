package models

import (
	"time"
)

// Post is a top-level thread on a board. Only the fields the points
// backfill and quota tracker read are modeled here; rendering concerns
// live with the client.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Board     string    `gorm:"size:100;index" json:"board"`
	Locked    bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Post model.
func (Post) TableName() string {
	return "posts"
}

// Reply is a threaded answer to a post.
type Reply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Reply model.
func (Reply) TableName() string {
	return "replies"
}

// Reaction is an emoji reaction placed by a user on a post or a reply.
// Exactly one of PostID/ReplyID is set.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    *uint     `gorm:"index" json:"post_id,omitempty"`
	ReplyID   *uint     `gorm:"index" json:"reply_id,omitempty"`
	Emoji     string    `gorm:"size:20" json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Reaction model.
func (Reaction) TableName() string {
	return "reactions"
}

// Bookmark marks a post saved by a user.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Bookmark model.
func (Bookmark) TableName() string {
	return "bookmarks"
}

// Follow records one user following another.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Follow model.
func (Follow) TableName() string {
	return "follows"
}
