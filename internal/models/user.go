package models

import (
	"crypto/md5"
	"fmt"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"uniqueIndex;size:64;not null" json:"nickname"` // Display name, unique but mutable
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`   // Identity key from the OAuth provider
	Role      string    `gorm:"size:20;default:'user';not null" json:"role"`  // user, admin
	AboutMe   string    `gorm:"size:140" json:"about_me"`
	LastSeen  time.Time `json:"last_seen"` // Bumped on every authenticated request
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// No DeletedAt, accounts are never removed
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Avatar returns the Gravatar URL for the user's email, scaled to the
// requested pixel size. Same email always yields the same URL.
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(u.Email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=mm&s=%d", digest, size)
}
