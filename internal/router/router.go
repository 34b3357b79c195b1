package router

import (
	"github.com/dlavelle7/LavelleBlog/internal/db"
	"github.com/dlavelle7/LavelleBlog/internal/handlers"
	"github.com/dlavelle7/LavelleBlog/internal/middleware"
	"github.com/dlavelle7/LavelleBlog/internal/services"
	"github.com/dlavelle7/LavelleBlog/internal/store"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Stores and services
	users := store.NewUserStore(db.DB)
	posts := store.NewPostStore(db.DB)
	feed := store.NewFeedAggregator(db.DB)
	mail := services.NewMailService()
	search := services.NewSearchService(db.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(users)
	postHandler := handlers.NewPostHandler(posts, feed, search)
	userHandler := handlers.NewUserHandler(users, posts, mail)
	searchHandler := handlers.NewSearchHandler(search)

	// Templates need to know whether to draw the search box
	r.Use(func(c *gin.Context) {
		c.Set(handlers.SearchEnabledKey, search.Enabled)
		c.Next()
	})

	// Public Routes
	r.GET("/login", authHandler.ShowLogin)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/", postHandler.Index)
		authorized.GET("/index", postHandler.Index)
		authorized.POST("/post", postHandler.Create)

		authorized.GET("/u/:nickname", userHandler.Profile)
		authorized.GET("/edit", userHandler.ShowEdit)
		authorized.POST("/edit", userHandler.Edit)
		authorized.POST("/follow/:nickname", userHandler.Follow)
		authorized.POST("/unfollow/:nickname", userHandler.Unfollow)

		if search.Enabled {
			authorized.GET("/search", searchHandler.Results)
		}
	}
}
