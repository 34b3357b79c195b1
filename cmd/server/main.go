package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/db"
	"github.com/dlavelle7/LavelleBlog/internal/handlers"
	"github.com/dlavelle7/LavelleBlog/internal/middleware"
	"github.com/dlavelle7/LavelleBlog/internal/router"
	"github.com/dlavelle7/LavelleBlog/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Identity provider client
	handlers.InitGoogleOAuth()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	r.Use(sessions.Sessions("microblog_session", sessionStore()))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Microblog server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// sessionStore prefers redis when REDIS_URL is set so sessions survive
// restarts, and falls back to signed cookies.
func sessionStore() sessions.Store {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}

	if addr := os.Getenv("REDIS_URL"); addr != "" {
		store, err := redis.NewStore(10, "tcp", addr, os.Getenv("REDIS_PASSWORD"), []byte(secret))
		if err == nil {
			return store
		}
		log.Printf("Redis session store unavailable (%v), using cookies", err)
	}
	return cookie.NewStore([]byte(secret))
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	// FuncMap
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"markdown": func(s string) template.HTML {
			return utils.RenderMarkdown(s)
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return "just now"
			} else if seconds < 3600 {
				return fmt.Sprintf("%d minutes ago", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%d hours ago", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%d days ago", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%d months ago", seconds/2592000)
			}
			return fmt.Sprintf("%d years ago", seconds/31536000)
		},
	}

	// Manual registration to ensure keys match handler expectation
	r.AddFromFilesFuncs("index.html", funcMap, assemble(templatesDir+"/views/index.html")...)
	r.AddFromFilesFuncs("login.html", funcMap, assemble(templatesDir+"/views/login.html")...)
	r.AddFromFilesFuncs("user.html", funcMap, assemble(templatesDir+"/views/user.html")...)
	r.AddFromFilesFuncs("edit.html", funcMap, assemble(templatesDir+"/views/edit.html")...)
	r.AddFromFilesFuncs("search.html", funcMap, assemble(templatesDir+"/views/search.html")...)
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
