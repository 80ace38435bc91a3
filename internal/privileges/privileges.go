// Package privileges holds the role/badge access predicates used by
// every privileged route. Role is always checked first and wins
// outright; only when the role grants nothing does the badge tier
// decide. Keeping the predicates in one package is what stops the
// server and any other consumer from drifting apart.
package privileges

import (
	"github.com/campushub/forum-api/internal/badges"
	"github.com/campushub/forum-api/internal/models"
)

// Subject is the minimal pair a predicate needs. Handlers build it from
// a freshly loaded user row, never from client-supplied values.
type Subject struct {
	Role  string
	Badge string
}

func roleIn(role string, roles ...string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// HasContributorPrivileges grants contributor features to elevated
// roles, or to students who earned the Forum Contributor badge.
func HasContributorPrivileges(s Subject) bool {
	if roleIn(s.Role, models.RoleContributor, models.RoleModerator, models.RoleAdmin) {
		return true
	}
	return s.Badge == badges.Contributor
}

// CanLockThreads grants thread locking to elevated roles, or to the
// Expert and Contributor badge tiers.
func CanLockThreads(s Subject) bool {
	if roleIn(s.Role, models.RoleContributor, models.RoleModerator, models.RoleAdmin) {
		return true
	}
	return s.Badge == badges.Expert || s.Badge == badges.Contributor
}

// CanAccessChat grants the student chat to elevated roles, or to the
// Active tier and above.
func CanAccessChat(s Subject) bool {
	if roleIn(s.Role, models.RoleContributor, models.RoleModerator, models.RoleAdmin) {
		return true
	}
	return s.Badge == badges.Active || s.Badge == badges.Expert || s.Badge == badges.Contributor
}

// HasModeratorPrivileges is role-only; no badge ever grants moderation.
func HasModeratorPrivileges(s Subject) bool {
	return roleIn(s.Role, models.RoleModerator, models.RoleAdmin)
}

// HasAdminPrivileges is true only for the admin role.
func HasAdminPrivileges(s Subject) bool {
	return s.Role == models.RoleAdmin
}
