package repository

import (
	"testing"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
)

func TestForumRepository_PostsAndReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForumRepository(db)
	user := createTestUser(t, db, "alice@school.test", 0, badges.Newbie)
	other := createTestUser(t, db, "bob@school.test", 0, badges.Newbie)

	post := models.Post{UserID: user.ID, Title: "Welcome week"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if err := db.Create(&models.Post{UserID: other.ID, Title: "Lost scarf"}).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if err := db.Create(&models.Reply{PostID: post.ID, UserID: user.ID, Content: "hi"}).Error; err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}

	posts, err := repo.PostsByUser(user.ID)
	if err != nil {
		t.Fatalf("PostsByUser() failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "Welcome week" {
		t.Errorf("Unexpected posts: %+v", posts)
	}

	replies, err := repo.RepliesByUser(user.ID)
	if err != nil {
		t.Fatalf("RepliesByUser() failed: %v", err)
	}
	if len(replies) != 1 {
		t.Errorf("Expected 1 reply, got %d", len(replies))
	}
}

func TestForumRepository_ReactionsDistinct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForumRepository(db)
	user := createTestUser(t, db, "carol@school.test", 0, badges.Newbie)

	post := models.Post{UserID: user.ID, Title: "Exam tips"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	// Two emoji on the same post count as one distinct reaction.
	for _, emoji := range []string{"👍", "🎉"} {
		r := models.Reaction{UserID: user.ID, PostID: &post.ID, Emoji: emoji}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("Failed to create reaction: %v", err)
		}
	}

	reactions, err := repo.ReactionsByUser(user.ID)
	if err != nil {
		t.Fatalf("ReactionsByUser() failed: %v", err)
	}
	if len(reactions) != 1 {
		t.Errorf("Expected 1 distinct reaction, got %d", len(reactions))
	}
}

func TestForumRepository_BookmarksAndFollows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewForumRepository(db)
	user := createTestUser(t, db, "dave@school.test", 0, badges.Newbie)
	other := createTestUser(t, db, "erin@school.test", 0, badges.Newbie)

	post := models.Post{UserID: other.ID, Title: "Club fair"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if err := db.Create(&models.Bookmark{UserID: user.ID, PostID: post.ID}).Error; err != nil {
		t.Fatalf("Failed to create bookmark: %v", err)
	}
	if err := db.Create(&models.Follow{FollowerID: user.ID, FollowedID: other.ID}).Error; err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}

	bookmarks, err := repo.BookmarksByUser(user.ID)
	if err != nil {
		t.Fatalf("BookmarksByUser() failed: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Errorf("Expected 1 bookmark, got %d", len(bookmarks))
	}

	follows, err := repo.FollowsByUser(user.ID)
	if err != nil {
		t.Fatalf("FollowsByUser() failed: %v", err)
	}
	if len(follows) != 1 || follows[0].FollowedID != other.ID {
		t.Errorf("Unexpected follows: %+v", follows)
	}

	// Follows initiated by the other user are not included.
	follows, err = repo.FollowsByUser(other.ID)
	if err != nil {
		t.Fatalf("FollowsByUser() failed: %v", err)
	}
	if len(follows) != 0 {
		t.Errorf("Expected no follows for other user, got %d", len(follows))
	}
}
