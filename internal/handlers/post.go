package handlers

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlavelle7/LavelleBlog/internal/services"
	"github.com/dlavelle7/LavelleBlog/internal/store"

	"github.com/gin-gonic/gin"
)

const maxPostLength = 140

type PostHandler struct {
	posts   *store.PostStore
	feed    *store.FeedAggregator
	search  *services.SearchService
	perPage int
}

func NewPostHandler(posts *store.PostStore, feed *store.FeedAggregator, search *services.SearchService) *PostHandler {
	return &PostHandler{
		posts:   posts,
		feed:    feed,
		search:  search,
		perPage: postsPerPage(),
	}
}

func postsPerPage() int {
	if v := os.Getenv("POSTS_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 25
}

func pageParam(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	return page
}

// Index renders the followed-posts feed plus the new-post form.
func (h *PostHandler) Index(c *gin.Context) {
	user := CurrentUser(c)
	page := pageParam(c)

	feedPage, err := h.feed.Feed(c.Request.Context(), user.ID, page, h.perPage, false)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load your feed")
		return
	}

	Render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Home",
		"Page":  feedPage,
	})
}

// Create validates and stores a new post, then bounces back to the feed.
func (h *PostHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	body := strings.TrimSpace(c.PostForm("body"))
	if body == "" {
		Flash(c, "Say something first!")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if utf8.RuneCountInString(body) > maxPostLength {
		Flash(c, "Posts are limited to 140 characters.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), user, body, time.Now().UTC())
	if err != nil {
		Flash(c, "Could not save your post. Please try again.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.search.IndexPost(post)

	Flash(c, "Your post is now live!")
	c.Redirect(http.StatusFound, "/")
}
