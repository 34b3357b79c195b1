package handlers

import (
	"net/http"
	"strings"

	"github.com/dlavelle7/LavelleBlog/internal/services"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Results renders posts matching ?q=. Only routed when search is enabled.
func (h *SearchHandler) Results(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	posts, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Search failed")
		return
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Title": "Search: " + query,
		"Query": query,
		"Posts": posts,
	})
}
