// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestCreatePostOptimisticSuccess(t *testing.T) {
	_, c := newFakeServer(t)
	s := NewSession(c)
	ctx := context.Background()

	created, err := s.CreatePostOptimistic(ctx, PostInput{
		Title:    "Optimism",
		Content:  "pays off",
		Category: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	posts := s.Posts()
	if len(posts) != 1 {
		t.Fatalf("visible list: got %d posts, want 1", len(posts))
	}
	// Placeholder replaced by the server record, temp id gone.
	if posts[0].ID != created.ID {
		t.Errorf("placeholder not reconciled: list %s, server %s", posts[0].ID, created.ID)
	}
	if posts[0].Slug != "server-slug" {
		t.Errorf("server fields not adopted: %+v", posts[0])
	}
}

func TestCreatePostOptimisticRollback(t *testing.T) {
	fs, c := newFakeServer(t)
	s := NewSession(c)
	ctx := context.Background()

	// Seed existing visible state.
	if _, err := s.CreatePostOptimistic(ctx, PostInput{Title: "Keeper", Content: "c", Category: uuid.New()}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fs.mu.Lock()
	fs.failWith = http.StatusConflict
	fs.mu.Unlock()

	_, err := s.CreatePostOptimistic(ctx, PostInput{Title: "Doomed", Content: "c", Category: uuid.New()})
	if err == nil {
		t.Fatal("expected the create to fail")
	}

	// The rejected speculative entity must not be retained.
	posts := s.Posts()
	if len(posts) != 1 {
		t.Fatalf("visible list: got %d posts, want 1", len(posts))
	}
	for _, p := range posts {
		if p.Title == "Doomed" {
			t.Error("rejected speculative post retained in the visible list")
		}
	}
}

func TestUpdatePostOptimisticRollback(t *testing.T) {
	fs, c := newFakeServer(t)
	s := NewSession(c)
	ctx := context.Background()

	created, err := s.CreatePostOptimistic(ctx, PostInput{Title: "Original", Content: "c", Category: uuid.New()})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	fs.mu.Lock()
	fs.failWith = http.StatusForbidden
	fs.mu.Unlock()

	if _, err := s.UpdatePostOptimistic(ctx, created.ID, PostInput{Title: "Hijacked"}); err == nil {
		t.Fatal("expected the update to fail")
	}

	posts := s.Posts()
	if posts[0].Title != "Original" {
		t.Errorf("prior copy not restored: %q", posts[0].Title)
	}
}

func TestUpdatePostOptimisticSuccess(t *testing.T) {
	_, c := newFakeServer(t)
	s := NewSession(c)
	ctx := context.Background()

	created, err := s.CreatePostOptimistic(ctx, PostInput{Title: "Before", Content: "c", Category: uuid.New()})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := s.UpdatePostOptimistic(ctx, created.ID, PostInput{Title: "After"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("server title: %q", updated.Title)
	}
	if got := s.Posts()[0].Title; got != "After" {
		t.Errorf("visible title: %q", got)
	}
}

func TestDeletePostOptimisticRollback(t *testing.T) {
	fs, c := newFakeServer(t)
	s := NewSession(c)
	ctx := context.Background()

	created, err := s.CreatePostOptimistic(ctx, PostInput{Title: "Sticky", Content: "c", Category: uuid.New()})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	fs.mu.Lock()
	fs.failWith = http.StatusForbidden
	fs.mu.Unlock()

	if err := s.DeletePostOptimistic(ctx, created.ID); err == nil {
		t.Fatal("expected the delete to fail")
	}

	posts := s.Posts()
	if len(posts) != 1 || posts[0].ID != created.ID {
		t.Errorf("deleted entry not restored: %+v", posts)
	}
}

func TestSessionRefresh(t *testing.T) {
	fs, c := newFakeServer(t)
	fs.posts = []models.Post{
		{ID: uuid.New(), Title: "One"},
		{ID: uuid.New(), Title: "Two"},
	}

	s := NewSession(c)
	if err := s.Refresh(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(s.Posts()) != 2 {
		t.Errorf("posts: got %d, want 2", len(s.Posts()))
	}
	if s.Pagination().TotalPosts != 2 {
		t.Errorf("pagination: %+v", s.Pagination())
	}

	// Posts() hands out a copy; mutating it must not touch the session.
	view := s.Posts()
	view[0].Title = "Mutated"
	if s.Posts()[0].Title == "Mutated" {
		t.Error("session state shared with caller copy")
	}
}
