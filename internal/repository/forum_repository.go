package repository

import (
	"fmt"

	"github.com/campushub/forum-api/internal/models"
)

// ForumRepository covers the forum content tables. The per-user listing
// methods back the points backfill, which enumerates point-earning items.
type ForumRepository struct {
	db *DB
}

// NewForumRepository creates a new forum repository.
func NewForumRepository(db *DB) *ForumRepository {
	return &ForumRepository{db: db}
}

// CreatePost stores a new post.
func (r *ForumRepository) CreatePost(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by id.
func (r *ForumRepository) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// SetPostLocked updates a post's locked flag.
func (r *ForumRepository) SetPostLocked(id uint, locked bool) error {
	res := r.db.Model(&models.Post{}).Where("id = ?", id).Update("locked", locked)
	if res.Error != nil {
		return fmt.Errorf("failed to update post lock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %d not found", id)
	}
	return nil
}

// PostsByUser returns the posts owned by a user.
func (r *ForumRepository) PostsByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Select("id", "title").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for user %d: %w", userID, err)
	}
	return posts, nil
}

// RepliesByUser returns the replies owned by a user.
func (r *ForumRepository) RepliesByUser(userID uint) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.
		Select("id", "post_id").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list replies for user %d: %w", userID, err)
	}
	return replies, nil
}

// ReactionsByUser returns one reaction per distinct target the user
// reacted to; multiple emoji on the same post count once.
func (r *ForumRepository) ReactionsByUser(userID uint) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.
		Distinct("post_id", "reply_id").
		Where("user_id = ?", userID).
		Find(&reactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions for user %d: %w", userID, err)
	}
	return reactions, nil
}

// BookmarksByUser returns the bookmarks placed by a user.
func (r *ForumRepository) BookmarksByUser(userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks for user %d: %w", userID, err)
	}
	return bookmarks, nil
}

// FollowsByUser returns the follows initiated by a user.
func (r *ForumRepository) FollowsByUser(userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.
		Where("follower_id = ?", userID).
		Order("id ASC").
		Find(&follows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list follows for user %d: %w", userID, err)
	}
	return follows, nil
}
