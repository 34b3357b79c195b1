package store

import (
	"context"

	"github.com/dlavelle7/LavelleBlog/internal/models"

	"gorm.io/gorm"
)

// FeedAggregator computes the followed-posts feed: every post authored by a
// user the viewer follows (self included, because signup establishes a
// self-follow — the aggregator itself only reads the edge set as given),
// newest first. A pure read over the current snapshot.
type FeedAggregator struct {
	db *gorm.DB
}

func NewFeedAggregator(db *gorm.DB) *FeedAggregator {
	return &FeedAggregator{db: db}
}

// Feed returns the requested 1-based page of the viewer's feed. The whole
// thing is a single join + sort so a post inserted mid-read either appears
// fully or not at all. Ordering is created_at DESC with id DESC breaking
// ties, which keeps pagination deterministic across repeated calls.
//
// A page past the end yields an empty page, unless strict is set, in which
// case it fails with ErrOutOfRange (page 1 of an empty feed is always fine).
// An unknown viewer fails with ErrNotFound.
func (f *FeedAggregator) Feed(ctx context.Context, viewerID uint, page, perPage int, strict bool) (*PostPage, error) {
	if page < 1 {
		page = 1
	}

	var viewers int64
	err := f.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", viewerID).
		Count(&viewers).Error
	if err != nil {
		return nil, err
	}
	if viewers == 0 {
		return nil, ErrNotFound
	}

	var total int64
	err = f.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN follows ON follows.followed_id = posts.user_id").
		Where("follows.follower_id = ?", viewerID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	if strict && page > 1 && int64(page-1)*int64(perPage) >= total {
		return nil, ErrOutOfRange
	}

	var posts []models.Post
	err = f.db.WithContext(ctx).Preload("User").
		Joins("JOIN follows ON follows.followed_id = posts.user_id").
		Where("follows.follower_id = ?", viewerID).
		Order("posts.created_at DESC, posts.id DESC").
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
