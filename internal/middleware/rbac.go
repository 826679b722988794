package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

// SelfRole grants access when the route's :id parameter is the caller's own user id.
const SelfRole = "SELF"

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.UserRole]struct{})
	for _, a := range allowed {
		if a == SelfRole {
			allowSelf = true
			continue
		}
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		if allowSelf {
			if targetID := c.Param("id"); targetID != "" && targetID == claims.UserID {
				c.Next()
				return
			}
		}

		response.Abort(c, appErrors.ErrForbidden)
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return RBAC(roleNames(roles)...)
}

// RequireRolesOrSelf also admits callers reading their own resource.
func RequireRolesOrSelf(roles ...models.UserRole) gin.HandlerFunc {
	return RBAC(append(roleNames(roles), SelfRole)...)
}

func roleNames(roles []models.UserRole) []string {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return allowed
}
