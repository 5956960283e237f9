// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Session keeps a local view of the post list on top of a Client.
// Mutations are optimistic: the list shows the expected result
// immediately and is reconciled with the server response. A rejected
// speculative entity is always rolled back, never retained.
type Session struct {
	mu  sync.Mutex
	api *Client

	user       *models.User
	posts      []models.Post
	pagination models.Pagination
	categories []models.Category
}

// NewSession wraps a Client with optimistic local state.
func NewSession(api *Client) *Session {
	return &Session{api: api}
}

// User returns the authenticated user, or nil before login.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Posts returns a copy of the currently visible post list.
func (s *Session) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Pagination returns the metadata of the last loaded page.
func (s *Session) Pagination() models.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Categories returns the last loaded category list.
func (s *Session) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Login authenticates and records the identity.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = res.User
	s.mu.Unlock()
	return nil
}

// Register creates an account and records the identity.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	res, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = res.User
	s.mu.Unlock()
	return nil
}

// Refresh loads a page of posts into the session.
func (s *Session) Refresh(ctx context.Context, opts ListOptions) error {
	page, err := s.api.ListPosts(ctx, opts)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = page.Posts
	s.pagination = page.Pagination
	s.mu.Unlock()
	return nil
}

// RefreshCategories loads the category list into the session.
func (s *Session) RefreshCategories(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

// CreatePostOptimistic prepends a speculative post to the visible list,
// then submits the create. On success the placeholder is replaced with
// the server's record; on failure it is removed.
func (s *Session) CreatePostOptimistic(ctx context.Context, in PostInput) (*models.Post, error) {
	tempID := uuid.New()

	speculative := models.Post{
		ID:            tempID,
		Title:         in.Title,
		Content:       in.Content,
		FeaturedImage: models.DefaultFeaturedImage,
		CategoryID:    in.Category,
		Tags:          in.Tags,
		CreatedAt:     time.Now(),
	}
	if in.Excerpt != "" {
		speculative.Excerpt = &in.Excerpt
	}
	s.mu.Lock()
	if s.user != nil {
		speculative.AuthorID = s.user.ID
		ref := s.user.Ref()
		speculative.Author = &ref
	}
	s.posts = append([]models.Post{speculative}, s.posts...)
	s.mu.Unlock()

	created, err := s.api.CreatePost(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(tempID)
	if err != nil {
		if idx >= 0 {
			s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
		}
		return nil, err
	}
	if idx >= 0 {
		s.posts[idx] = *created
	}
	return created, nil
}

// UpdatePostOptimistic applies the change to the visible list, then
// submits the update. On success the entry is replaced with the
// server's record; on failure the prior copy is restored.
func (s *Session) UpdatePostOptimistic(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	var prior models.Post
	if idx >= 0 {
		prior = s.posts[idx]
		staged := prior
		if in.Title != "" {
			staged.Title = in.Title
		}
		if in.Content != "" {
			staged.Content = in.Content
		}
		if in.Excerpt != "" {
			staged.Excerpt = &in.Excerpt
		}
		if in.Category != uuid.Nil {
			staged.CategoryID = in.Category
		}
		if len(in.Tags) > 0 {
			staged.Tags = in.Tags
		}
		s.posts[idx] = staged
	}
	s.mu.Unlock()

	updated, err := s.api.UpdatePost(ctx, id, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexOf(id)
	if err != nil {
		if idx >= 0 {
			s.posts[idx] = prior
		}
		return nil, err
	}
	if idx >= 0 {
		s.posts[idx] = *updated
	}
	return updated, nil
}

// DeletePostOptimistic removes the post from the visible list, then
// submits the delete. On failure the entry is restored at its old
// position.
func (s *Session) DeletePostOptimistic(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	var removed models.Post
	if idx >= 0 {
		removed = s.posts[idx]
		s.posts = append(s.posts[:idx], s.posts[idx+1:]...)
	}
	s.mu.Unlock()

	err := s.api.DeletePost(ctx, id)
	if err != nil && idx >= 0 {
		s.mu.Lock()
		if idx > len(s.posts) {
			idx = len(s.posts)
		}
		s.posts = append(s.posts[:idx], append([]models.Post{removed}, s.posts[idx:]...)...)
		s.mu.Unlock()
	}
	return err
}

// indexOf returns the position of a post in the visible list, or -1.
// Callers must hold the mutex.
func (s *Session) indexOf(id uuid.UUID) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}
