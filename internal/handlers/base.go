package handlers

import (
	"github.com/dlavelle7/LavelleBlog/internal/middleware"
	"github.com/dlavelle7/LavelleBlog/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const SearchEnabledKey = "search_enabled"

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}

	// Pop queued flash messages
	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		session.Save()
		msgs := make([]string, 0, len(flashes))
		for _, f := range flashes {
			if s, ok := f.(string); ok {
				msgs = append(msgs, s)
			}
		}
		obj["Flashes"] = msgs
	}

	if enabled, ok := c.Get(SearchEnabledKey); ok {
		obj["SearchEnabled"] = enabled
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// CurrentUser returns the session user loaded by middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(middleware.CurrentUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// Flash queues a status message for the next rendered page.
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	session.Save()
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
