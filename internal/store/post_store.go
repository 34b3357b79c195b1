package store

import (
	"context"
	"math"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/models"

	"gorm.io/gorm"
)

// PostPage is one page of a listing plus enough bookkeeping to tell an empty
// page within range apart from a page past the end.
type PostPage struct {
	Posts      []models.Post
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

func (p *PostPage) HasNext() bool { return p.Page < p.TotalPages }
func (p *PostPage) HasPrev() bool { return p.Page > 1 }

// OutOfRange reports whether the requested page lies beyond the last page of
// actual content.
func (p *PostPage) OutOfRange() bool {
	return p.Total > 0 && p.Page > p.TotalPages
}

func totalPages(total int64, perPage int) int {
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	if pages == 0 {
		pages = 1
	}
	return pages
}

// PostStore holds posts. A post belongs to exactly one author, set at
// creation and never changed; posts are never edited or deleted.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// CreatePost stores the body verbatim; length validation happens at the HTTP
// layer before the store is reached.
func (s *PostStore) CreatePost(ctx context.Context, author *models.User, body string, timestamp time.Time) (*models.Post, error) {
	post := &models.Post{
		Body:      body,
		UserID:    author.ID,
		CreatedAt: timestamp,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	post.User = *author
	return post, nil
}

// ListByAuthor returns one page of the user's posts, newest first. Pages are
// 1-based; a page past the end comes back empty with the totals telling the
// caller it was out of range.
func (s *PostStore) ListByAuthor(ctx context.Context, userID uint, page, perPage int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	err = s.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      posts,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages(total, perPage),
	}, nil
}
