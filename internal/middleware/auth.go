package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fintalk/fintalk/internal/db"
)

// Session and context keys shared with the handlers.
const (
	SessionUserIDKey = "user_id"
	ContextUserKey   = "current_user"
)

// CurrentUser returns the authenticated user placed on the context by
// AuthRequired.
func CurrentUser(c *gin.Context) (*db.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*db.User)
	return user, ok
}

// AuthRequired resolves the session user and stores it on the request
// context. Requests without a valid session are rejected.
func AuthRequired(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get(SessionUserIDKey)
		userID, ok := rawID.(uint)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var user db.User
		if err := gdb.First(&user, userID).Error; err != nil {
			session.Clear()
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// RoleRequired rejects users below the given role. It assumes AuthRequired
// already ran on the route group.
func RoleRequired(minRole string) gin.HandlerFunc {
	minRank := db.RoleRank(minRole)
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if db.RoleRank(user.Role) < minRank {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
