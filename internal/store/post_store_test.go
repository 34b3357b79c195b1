package store

import (
	"context"
	"testing"
	"time"

	"github.com/dlavelle7/LavelleBlog/internal/models"
)

func TestListByAuthorNewestFirst(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	john, _ := users.CreateUser(ctx, "john", "john@example.com", models.RoleUser)
	susan, _ := users.CreateUser(ctx, "susan", "susan@example.com", models.RoleUser)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old, _ := posts.CreatePost(ctx, john, "older", base)
	newer, _ := posts.CreatePost(ctx, john, "newer", base.Add(time.Hour))
	posts.CreatePost(ctx, susan, "not john's", base.Add(2*time.Hour))

	page, err := posts.ListByAuthor(ctx, john.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(page.Posts))
	}
	if page.Posts[0].ID != newer.ID || page.Posts[1].ID != old.ID {
		t.Errorf("order = [%d %d], want [%d %d]",
			page.Posts[0].ID, page.Posts[1].ID, newer.ID, old.ID)
	}
	if page.Posts[0].User.Nickname != "john" {
		t.Errorf("author = %q, want %q", page.Posts[0].User.Nickname, "john")
	}
}

// Posts sharing a timestamp fall back to insertion order, newest insert first,
// so repeated pagination never reshuffles.
func TestListByAuthorTimestampTie(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	john, _ := users.CreateUser(ctx, "john", "john@example.com", models.RoleUser)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first, _ := posts.CreatePost(ctx, john, "first", ts)
	second, _ := posts.CreatePost(ctx, john, "second", ts)

	page, err := posts.ListByAuthor(ctx, john.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if page.Posts[0].ID != second.ID || page.Posts[1].ID != first.ID {
		t.Errorf("tie order = [%d %d], want [%d %d]",
			page.Posts[0].ID, page.Posts[1].ID, second.ID, first.ID)
	}
}

func TestListByAuthorOutOfRange(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	john, _ := users.CreateUser(ctx, "john", "john@example.com", models.RoleUser)
	posts.CreatePost(ctx, john, "only post", time.Now().UTC())

	page, err := posts.ListByAuthor(ctx, john.ID, 5, 10)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Errorf("got %d posts, want 0", len(page.Posts))
	}
	if !page.OutOfRange() {
		t.Error("page 5 of a one-post listing should be out of range")
	}

	// A user with no posts at all gets a valid empty page 1.
	susan, _ := users.CreateUser(ctx, "susan", "susan@example.com", models.RoleUser)
	page, _ = posts.ListByAuthor(ctx, susan.ID, 1, 10)
	if page.OutOfRange() {
		t.Error("empty page 1 is within range")
	}
}
