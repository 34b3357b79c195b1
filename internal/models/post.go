package models

import (
	"time"
)

type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Body   string `gorm:"size:140;not null" json:"body"`
	UserID uint   `gorm:"not null;index:idx_posts_author_time,priority:1" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	// Creation time is the sole sort key of every listing; never updated.
	CreatedAt time.Time `gorm:"index;index:idx_posts_author_time,priority:2,sort:desc" json:"created_at"`
}
