package services

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/models"
	"github.com/dlavelle7/LavelleBlog/internal/utils"

	"gorm.io/gorm"
)

const searchCacheTTL = time.Minute

// SearchService does case-insensitive full-text lookup over post bodies.
// Entirely absent in some deployments: when SEARCH_ENABLED is off the HTTP
// layer hides the search box and never routes here. Results are memoized in
// a TTL'd LRU cache; IndexPost invalidates it so fresh posts become
// searchable immediately.
type SearchService struct {
	db         *gorm.DB
	cache      *utils.Cache
	maxResults int
	Enabled    bool
}

func NewSearchService(db *gorm.DB) *SearchService {
	v := os.Getenv("SEARCH_ENABLED")
	enabled := v == "" || v == "1" || v == "true"
	if !enabled {
		log.Println("SearchService disabled via SEARCH_ENABLED")
	}

	maxResults := 50
	if m := os.Getenv("MAX_SEARCH_RESULTS"); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			maxResults = n
		}
	}

	cache, err := utils.NewCache(256)
	if err != nil {
		log.Fatalf("Failed to create search cache: %v", err)
	}

	return &SearchService{
		db:         db,
		cache:      cache,
		maxResults: maxResults,
		Enabled:    enabled,
	}
}

// Search returns matching posts, newest first, capped at MAX_SEARCH_RESULTS.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.Post, error) {
	if !s.Enabled || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	key := strings.ToLower(strings.TrimSpace(query))
	if cached := s.cache.Get(key); cached != nil {
		if posts, ok := cached.([]models.Post); ok {
			return posts, nil
		}
	}

	var posts []models.Post
	pattern := "%" + key + "%"
	err := s.db.WithContext(ctx).Preload("User").
		Where("LOWER(body) LIKE ?", pattern).
		Order("created_at DESC, id DESC").
		Limit(s.maxResults).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, posts, searchCacheTTL)
	return posts, nil
}

// IndexPost makes a freshly created post visible to subsequent searches by
// dropping the memoized results.
func (s *SearchService) IndexPost(post *models.Post) {
	if !s.Enabled || post == nil {
		return
	}
	s.cache.Purge()
}
