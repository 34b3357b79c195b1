package middleware

import (
	"net/http"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/db"
	"github.com/dlavelle7/LavelleBlog/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "current_user"

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser resolves the session user, sets it on the context, and records
// the visit (last_seen). Runs on every request; anonymous requests pass
// through untouched.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			if id, ok := userID.(uint); ok {
				var user models.User
				if err := db.DB.First(&user, id).Error; err == nil {
					now := time.Now().UTC()
					db.DB.Model(&user).UpdateColumn("last_seen", now)
					user.LastSeen = now
					c.Set(CurrentUserKey, &user)
				}
			}
		}
		c.Next()
	}
}
