package models

import (
	"time"
)

// Follow is a directed edge: the follower sees the followed user's posts in
// their feed. Kept as its own table so the (follower, followed) pair can be
// enforced unique at the storage layer. Self-edges are allowed; signup
// creates one so users see their own posts.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
