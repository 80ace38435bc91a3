// Package api assembles the HTTP surface: route registration, auth and
// privilege middleware, health and metrics endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campushub/forum-api/internal/api/admin"
	"github.com/campushub/forum-api/internal/api/forum"
	"github.com/campushub/forum-api/internal/api/middleware"
	"github.com/campushub/forum-api/internal/api/notes"
	"github.com/campushub/forum-api/internal/config"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// Handlers groups the per-area handlers wired into the router.
type Handlers struct {
	Forum *forum.Handler
	Admin *admin.Handler
	Notes *notes.Handler
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(
	cfg *config.Config,
	db *repository.DB,
	userRepo *repository.UserRepository,
	handlers Handlers,
	log *logger.Logger,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")

	// Public reads
	{
		v1.GET("/badges", handlers.Forum.GetBadgeCatalog)
		v1.GET("/leaderboard", handlers.Forum.GetLeaderboard)
		v1.GET("/users/:id/points", handlers.Forum.GetPointsSummary)
		v1.GET("/users/:id/points/history", handlers.Forum.GetPointsHistory)
		v1.GET("/users/:id/note", handlers.Notes.GetNote)
	}

	// Authenticated forum actions
	authed := v1.Group("")
	authed.Use(middleware.Auth(cfg.Auth.JWTSecret, log))
	{
		authed.POST("/posts", handlers.Forum.CreatePost)
		authed.PUT("/posts/:id/lock",
			middleware.RequireLockThreads(userRepo, log), handlers.Forum.LockPost)
		authed.GET("/me/quota", handlers.Forum.GetQuota)
		authed.GET("/me/access", handlers.Forum.GetAccess)

		// Contributor perks
		authed.PUT("/me/note",
			middleware.RequireContributor(userRepo, log), handlers.Notes.SetNote)
		authed.DELETE("/me/note",
			middleware.RequireContributor(userRepo, log), handlers.Notes.DeleteNote)
	}

	// Administrative operations
	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.Auth(cfg.Auth.JWTSecret, log), middleware.RequireAdmin(userRepo, log))
	{
		adminGroup.GET("/users/:id", handlers.Admin.GetUser)
		adminGroup.POST("/users/:id/points/reset", handlers.Admin.ResetPoints)
		adminGroup.PUT("/users/:id/badge", handlers.Admin.SetBadge)
		adminGroup.PUT("/users/:id/role", handlers.Admin.SetRole)
		adminGroup.POST("/backfill", handlers.Admin.RunBackfill)
	}

	return r
}
