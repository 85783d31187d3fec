package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reportsvc/internal/domain"
	"reportsvc/internal/service"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyRoleID   = "role_id"
	ContextKeyEmail    = "email"
	ContextKeyName     = "name"
	ContextKeyIdentity = "identity"
)

// AuthMiddleware returns Gin middleware that verifies the bearer token and
// injects the caller identity into the context.
func AuthMiddleware(identityService service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityService.Decode(c.GetHeader("Authorization"))
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, domain.ErrEmptyToken) {
				msg = "missing or invalid authorization header"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
			})
			return
		}

		c.Set(ContextKeyUserID, identity.UserID)
		c.Set(ContextKeyRoleID, identity.RoleID)
		c.Set(ContextKeyEmail, identity.Email)
		c.Set(ContextKeyName, identity.Name)
		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return val.(uuid.UUID), nil
}

// GetIdentity extracts the decoded caller from the Gin context.
func GetIdentity(c *gin.Context) (*domain.Identity, error) {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, domain.ErrUnauthorized
	}
	return val.(*domain.Identity), nil
}
