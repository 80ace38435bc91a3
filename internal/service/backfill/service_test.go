package backfill

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/internal/service/points"
	"github.com/campushub/forum-api/pkg/logger"
)

// The backfill is tested against a real in-memory database because its
// whole point is the interplay with the ledger's dedupe key.
func setupBackfill(t *testing.T) (*Service, *repository.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db := &repository.DB{DB: gdb}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	catalog := badges.Default()
	pointsRepo := repository.NewPointsRepository(db, catalog)
	userRepo := repository.NewUserRepository(db)
	forumRepo := repository.NewForumRepository(db)
	ledger := points.NewService(pointsRepo, userRepo, catalog, logger.Nop())

	svc := NewService(ledger, pointsRepo, userRepo, forumRepo, logger.Nop())
	return svc, db
}

func seedUser(t *testing.T, db *repository.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: models.RoleStudent, Badge: badges.Newbie}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestRun_ComputesPointsFromContent(t *testing.T) {
	svc, db := setupBackfill(t)
	user := seedUser(t, db, "alice@school.test")
	other := seedUser(t, db, "bob@school.test")

	// 2 posts (10), 3 replies (6), 1 distinct reaction (1),
	// 1 bookmark (3), 1 follow (8) = 28 points.
	post1 := models.Post{UserID: user.ID, Title: "First"}
	post2 := models.Post{UserID: user.ID, Title: "Second"}
	db.Create(&post1)
	db.Create(&post2)
	for i := 0; i < 3; i++ {
		db.Create(&models.Reply{PostID: post1.ID, UserID: user.ID, Content: "r"})
	}
	db.Create(&models.Reaction{UserID: user.ID, PostID: &post2.ID, Emoji: "👍"})
	db.Create(&models.Bookmark{UserID: user.ID, PostID: post2.ID})
	db.Create(&models.Follow{FollowerID: user.ID, FollowedID: other.ID})

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if stats.Awarded != 8 {
		t.Errorf("Expected 8 awards, got %d", stats.Awarded)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if stored.Points != 28 {
		t.Errorf("Expected 28 points, got %d", stored.Points)
	}
	// 28 points lands in Forum Active; the ledger should have
	// persisted the promotion.
	if stored.Badge != badges.Active {
		t.Errorf("Expected badge %q, got %q", badges.Active, stored.Badge)
	}
}

func TestRun_Idempotent(t *testing.T) {
	svc, db := setupBackfill(t)
	user := seedUser(t, db, "carol@school.test")

	post := models.Post{UserID: user.ID, Title: "Only post"}
	db.Create(&post)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("First Run() failed: %v", err)
	}

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Second Run() failed: %v", err)
	}
	if stats.Awarded != 0 || stats.Skipped != 1 {
		t.Errorf("Expected second run to skip everything, got %+v", stats)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if stored.Points != 5 {
		t.Errorf("Expected points unchanged at 5, got %d", stored.Points)
	}

	var historyCount int64
	db.Model(&models.PointsHistory{}).Where("user_id = ?", user.ID).Count(&historyCount)
	if historyCount != 1 {
		t.Errorf("Expected 1 history row, got %d", historyCount)
	}
}

func TestRun_DistinctReactionsCountOnce(t *testing.T) {
	svc, db := setupBackfill(t)
	user := seedUser(t, db, "dave@school.test")

	post := models.Post{UserID: user.ID, Title: "Reacted"}
	db.Create(&post)
	// Two emoji on the same post: one distinct reaction.
	db.Create(&models.Reaction{UserID: user.ID, PostID: &post.ID, Emoji: "👍"})
	db.Create(&models.Reaction{UserID: user.ID, PostID: &post.ID, Emoji: "🎉"})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	// 5 for the post + 1 for the distinct reaction.
	if stored.Points != 6 {
		t.Errorf("Expected 6 points, got %d", stored.Points)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	svc, db := setupBackfill(t)
	seedUser(t, db, "erin@school.test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Run(ctx); err == nil {
		t.Error("Expected error from cancelled context")
	}
}
