package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	created := createTestUser(t, db, "alice@school.test", 0, badges.Newbie)

	user, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if user.Email != "alice@school.test" {
		t.Errorf("Expected email alice@school.test, got %q", user.Email)
	}

	if _, err := repo.GetByID(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_IncrementPostCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "bob@school.test", 0, badges.Newbie)

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.IncrementPostCount(user.ID, today); err != nil {
		t.Fatalf("IncrementPostCount() failed: %v", err)
	}
	if err := repo.IncrementPostCount(user.ID, today); err != nil {
		t.Fatalf("IncrementPostCount() failed: %v", err)
	}

	stored, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if stored.PostsToday != 2 {
		t.Errorf("Expected posts_today = 2, got %d", stored.PostsToday)
	}
	if stored.LastPostDate == nil || !stored.LastPostDate.Equal(today) {
		t.Errorf("Expected last_post_date %v, got %v", today, stored.LastPostDate)
	}

	if err := repo.IncrementPostCount(999, today); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ResetDailyCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "carol@school.test", 0, badges.Newbie)

	yesterday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	today := yesterday.AddDate(0, 0, 1)
	if err := repo.IncrementPostCount(user.ID, yesterday); err != nil {
		t.Fatalf("IncrementPostCount() failed: %v", err)
	}

	if err := repo.ResetDailyCounter(user.ID, today); err != nil {
		t.Fatalf("ResetDailyCounter() failed: %v", err)
	}

	stored, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if stored.PostsToday != 0 {
		t.Errorf("Expected posts_today = 0 after reset, got %d", stored.PostsToday)
	}
	if stored.LastPostDate == nil || !stored.LastPostDate.Equal(today) {
		t.Errorf("Expected last_post_date %v, got %v", today, stored.LastPostDate)
	}
}

func TestUserRepository_TopByPoints(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "low@school.test", 10, badges.Newbie)
	mid := createTestUser(t, db, "mid@school.test", 120, badges.Expert)
	top := createTestUser(t, db, "top@school.test", 250, badges.Contributor)

	users, err := repo.TopByPoints(2)
	if err != nil {
		t.Fatalf("TopByPoints() failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}
	if users[0].ID != top.ID || users[1].ID != mid.ID {
		t.Errorf("Unexpected ordering: %+v", users)
	}
}

func TestUserRepository_SetRoleAndBadge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	user := createTestUser(t, db, "dave@school.test", 0, badges.Newbie)

	if err := repo.SetRole(user.ID, models.RoleModerator); err != nil {
		t.Fatalf("SetRole() failed: %v", err)
	}
	if err := repo.SetBadge(user.ID, badges.Expert); err != nil {
		t.Fatalf("SetBadge() failed: %v", err)
	}

	stored, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if stored.Role != models.RoleModerator || stored.Badge != badges.Expert {
		t.Errorf("Unexpected role/badge: %q / %q", stored.Role, stored.Badge)
	}

	if err := repo.SetRole(999, models.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
