package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore holds user records and their directed follow edges. All methods
// return materialized results; nothing lazy leaks out.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new user and their self-follow edge in one
// transaction: either both rows land or neither does. A duplicate email or
// nickname surfaces as ErrConflict from the unique indexes, so two
// concurrent signups for the same address cannot both succeed.
func (s *UserStore) CreateUser(ctx context.Context, nickname, email, role string) (*models.User, error) {
	user := &models.User{
		Nickname: nickname,
		Email:    email,
		Role:     role,
		LastSeen: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		// Users follow themselves so their own posts show up in their feed.
		return tx.Create(&models.Follow{FollowerID: user.ID, FollowedID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// ResolveUniqueNickname returns candidate unchanged if no user has it,
// otherwise appends the lowest numeric suffix (starting at 2) that is free.
// Deterministic for a given store state. This is only an optimization: the
// unique index on nickname is what actually enforces uniqueness, so the
// caller must still be prepared for ErrConflict on create.
func (s *UserStore) ResolveUniqueNickname(ctx context.Context, candidate string) (string, error) {
	taken, err := s.nicknameTaken(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	for version := 2; ; version++ {
		nickname := candidate + strconv.Itoa(version)
		taken, err := s.nicknameTaken(ctx, nickname)
		if err != nil {
			return "", err
		}
		if !taken {
			return nickname, nil
		}
	}
}

func (s *UserStore) nicknameTaken(ctx context.Context, nickname string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("nickname = ?", nickname).
		Count(&count).Error
	return count > 0, err
}

// FindByNickname does an exact match, no trimming or case folding.
func (s *UserStore) FindByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Follow adds the (follower, followed) edge if absent and reports whether a
// new edge was created. Idempotent under concurrency: the insert races on
// the composite unique index and losers simply see no rows affected.
func (s *UserStore) Follow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, FollowedID: followedID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge if present and reports whether one was removed.
// Removing a non-existent edge is a no-op, not an error.
func (s *UserStore) Unfollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *UserStore) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// FollowerCount counts edges pointing at the user, self-follow included.
func (s *UserStore) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *UserStore) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// UpdateProfile changes the user's nickname and about-me text. Changing the
// nickname to one held by a different user fails with ErrConflict; keeping
// the current nickname always passes. The pre-check is advisory, the unique
// index has the final word.
func (s *UserStore) UpdateProfile(ctx context.Context, user *models.User, nickname, aboutMe string) error {
	if nickname != user.Nickname {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("nickname = ? AND id <> ?", nickname, user.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
	}
	err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"nickname": nickname,
		"about_me": aboutMe,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	user.Nickname = nickname
	user.AboutMe = aboutMe
	return nil
}

// Touch records that the user was just seen.
func (s *UserStore) Touch(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_seen", time.Now().UTC()).Error
}
