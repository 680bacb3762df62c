package middleware

import (
	"net/http"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []identity.UserRole)
}

// RequireRole creates middleware that requires one of the given roles.
// The JWT middleware must run first so the claims are in context.
func RequireRole(roles ...identity.UserRole) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == string(role) {
				allowed = true
				break
			}
		}
		if !allowed {
			handleRoleDenied(c, cfg, roles, "User role not permitted")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
			)
		}

		c.Next()
	}
}

// RequireAdmin restricts an endpoint to brokerage administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.UserRoleAdmin)
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, roles []identity.UserRole, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, roles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userRole := ""
		if claims != nil {
			userID = claims.UserID
			userRole = claims.Role
		}

		required := make([]string, len(roles))
		for i, r := range roles {
			required[i] = string(r)
		}

		cfg.Logger.Warn("Role check denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_roles", required),
			zap.String("user_role", userRole),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}

// HasRole is a helper for role checks inside handlers
func HasRole(c *gin.Context, roles ...identity.UserRole) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	for _, role := range roles {
		if claims.Role == string(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the authenticated user is a brokerage admin
func IsAdmin(c *gin.Context) bool {
	return HasRole(c, identity.UserRoleAdmin)
}
