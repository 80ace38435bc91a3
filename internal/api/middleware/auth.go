// Package middleware provides gin middleware for authentication and
// privilege enforcement. Privileged routes always re-read role and
// badge from the database; nothing client-supplied is trusted.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campushub/forum-api/internal/models"
	"github.com/campushub/forum-api/internal/privileges"
	"github.com/campushub/forum-api/internal/repository"
	"github.com/campushub/forum-api/pkg/logger"
)

// Context keys set by the middleware chain.
const (
	ContextUserIDKey  = "user_id"
	ContextSubjectKey = "subject"
)

// UserRepository interface for fresh role/badge reads.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
}

// Auth verifies the Bearer token and stores the caller's user id.
func Auth(jwtSecret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("Rejected invalid token")
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "invalid token claims")
			return
		}
		idFloat, ok := claims["user_id"].(float64)
		if !ok {
			abort(c, http.StatusUnauthorized, "invalid token claims")
			return
		}

		c.Set(ContextUserIDKey, uint(idFloat))
		c.Next()
	}
}

// UserID returns the authenticated caller's id from the context.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Subject returns the freshly loaded role/badge pair placed by one of
// the Require middlewares.
func Subject(c *gin.Context) (privileges.Subject, bool) {
	v, ok := c.Get(ContextSubjectKey)
	if !ok {
		return privileges.Subject{}, false
	}
	s, ok := v.(privileges.Subject)
	return s, ok
}

// requirePrivilege loads the caller's current role and badge and
// aborts with 403 unless the predicate passes.
func requirePrivilege(userRepo UserRepository, log *logger.Logger, check func(privileges.Subject) bool, denied string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := userRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				abort(c, http.StatusForbidden, "user not found")
				return
			}
			log.Error().Err(err).Uint("user_id", id).Msg("Failed to load user for privilege check")
			abort(c, http.StatusInternalServerError, "failed to verify permissions")
			return
		}

		subject := privileges.Subject{Role: user.Role, Badge: user.Badge}
		if !check(subject) {
			abort(c, http.StatusForbidden, denied)
			return
		}

		c.Set(ContextSubjectKey, subject)
		c.Next()
	}
}

// RequireContributor admits elevated roles or the Forum Contributor badge.
func RequireContributor(userRepo UserRepository, log *logger.Logger) gin.HandlerFunc {
	return requirePrivilege(userRepo, log, privileges.HasContributorPrivileges,
		"this feature is only available to contributors or users with the Forum Contributor badge (200+ points)")
}

// RequireLockThreads admits elevated roles or the Forum Expert badge
// and above.
func RequireLockThreads(userRepo UserRepository, log *logger.Logger) gin.HandlerFunc {
	return requirePrivilege(userRepo, log, privileges.CanLockThreads,
		"locking threads requires the Forum Expert badge (100+ points) or moderator access")
}

// RequireModerator admits moderator and admin roles only.
func RequireModerator(userRepo UserRepository, log *logger.Logger) gin.HandlerFunc {
	return requirePrivilege(userRepo, log, privileges.HasModeratorPrivileges,
		"moderator access required")
}

// RequireAdmin admits the admin role only.
func RequireAdmin(userRepo UserRepository, log *logger.Logger) gin.HandlerFunc {
	return requirePrivilege(userRepo, log, privileges.HasAdminPrivileges,
		"admin access required")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
