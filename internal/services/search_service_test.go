package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedPost(t *testing.T, db *gorm.DB, user *models.User, body string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Body: body, UserID: user.ID, CreatedAt: createdAt}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{Nickname: nickname, Email: nickname + "@example.com", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestSearchCaseInsensitive(t *testing.T) {
	db := testDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	john := seedUser(t, db, "john")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	match := seedPost(t, db, john, "Hello World from Go", base)
	seedPost(t, db, john, "unrelated chatter", base.Add(time.Hour))

	posts, err := search.Search(ctx, "hello world")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != match.ID {
		t.Fatalf("got %d results, want exactly the matching post", len(posts))
	}
	if posts[0].User.Nickname != "john" {
		t.Errorf("author = %q, want %q", posts[0].User.Nickname, "john")
	}
}

func TestSearchNewestFirst(t *testing.T) {
	db := testDB(t)
	search := NewSearchService(db)

	john := seedUser(t, db, "john")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	older := seedPost(t, db, john, "go is fun", base)
	newer := seedPost(t, db, john, "still writing go", base.Add(time.Hour))

	posts, err := search.Search(context.Background(), "go")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Errorf("order wrong: got %v", postIDs(posts))
	}
}

func TestSearchIndexPostInvalidatesCache(t *testing.T) {
	db := testDB(t)
	search := NewSearchService(db)
	ctx := context.Background()

	john := seedUser(t, db, "john")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedPost(t, db, john, "coffee time", base)

	posts, err := search.Search(ctx, "coffee")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d results, want 1", len(posts))
	}

	// New post, but the memoized result is stale until IndexPost runs.
	fresh := seedPost(t, db, john, "more coffee", base.Add(time.Hour))
	posts, _ = search.Search(ctx, "coffee")
	if len(posts) != 1 {
		t.Fatalf("cached query returned %d results, want stale 1", len(posts))
	}

	search.IndexPost(fresh)
	posts, _ = search.Search(ctx, "coffee")
	if len(posts) != 2 {
		t.Errorf("after IndexPost got %d results, want 2", len(posts))
	}
}

func TestSearchDisabled(t *testing.T) {
	t.Setenv("SEARCH_ENABLED", "0")

	db := testDB(t)
	search := NewSearchService(db)
	if search.Enabled {
		t.Fatal("service should be disabled")
	}

	john := seedUser(t, db, "john")
	seedPost(t, db, john, "invisible", time.Now().UTC())

	posts, err := search.Search(context.Background(), "invisible")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if posts != nil {
		t.Errorf("disabled search returned %d results", len(posts))
	}
}

func TestSearchMaxResults(t *testing.T) {
	t.Setenv("MAX_SEARCH_RESULTS", "2")

	db := testDB(t)
	search := NewSearchService(db)

	john := seedUser(t, db, "john")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPost(t, db, john, fmt.Sprintf("repeat %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := search.Search(context.Background(), "repeat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d results, want capped 2", len(posts))
	}
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
