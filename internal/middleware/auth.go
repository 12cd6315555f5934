package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/auth"
	"github.com/jonesrussell/shorty/internal/domain"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/storage"
)

// Gin context keys set by RequireAuth.
const (
	ownerKey       = "owner"
	permissionsKey = "permissions"
)

const bearerPrefix = "Bearer "

// RequireAuth validates the Bearer token and resolves the caller's owner
// record and permission flags, storing both in the request context. Owners
// are created on first authenticated use with default permissions, mirroring
// how directory-backed identities appear without registration.
func RequireAuth(manager *auth.JWTManager, owners storage.OwnerStore, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := manager.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		owner, perms, err := owners.GetOrCreate(c.Request.Context(), claims.Subject)
		if err != nil {
			log.Error("failed to resolve owner",
				logger.String("username", claims.Subject),
				logger.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ownerKey, owner)
		c.Set(permissionsKey, perms)

		c.Next()
	}
}

// CurrentOwner returns the authenticated owner stored by RequireAuth.
func CurrentOwner(c *gin.Context) (*domain.Owner, bool) {
	value, exists := c.Get(ownerKey)
	if !exists {
		return nil, false
	}

	owner, ok := value.(*domain.Owner)
	return owner, ok
}

// CurrentPermissions returns the caller's permission flags stored by
// RequireAuth.
func CurrentPermissions(c *gin.Context) (*domain.Permissions, bool) {
	value, exists := c.Get(permissionsKey)
	if !exists {
		return nil, false
	}

	perms, ok := value.(*domain.Permissions)
	return perms, ok
}
