// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTitleLen is the upper bound on post titles.
	MaxTitleLen = 100

	// MaxExcerptLen is the upper bound on post excerpts.
	MaxExcerptLen = 200

	// MaxCommentLen bounds comment content; comments must also be non-empty.
	MaxCommentLen = 500

	// DefaultFeaturedImage is the sentinel filename used when a post is
	// created without an uploaded image.
	DefaultFeaturedImage = "default-post.jpg"
)

// Post is the central aggregate: a blog entry together with its comments.
// The slug is derived from the title at creation and never reassigned;
// the author reference is immutable after creation.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Slug          string    `json:"slug"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	FeaturedImage string    `json:"featured_image"`
	AuthorID      uuid.UUID `json:"author_id"`
	CategoryID    uuid.UUID `json:"category_id"`
	Tags          []string  `json:"tags"`
	IsPublished   bool      `json:"is_published"`
	ViewCount     int       `json:"view_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Denormalized references populated by store joins.
	Author   *UserRef     `json:"author,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
	Comments []Comment    `json:"comments,omitempty"`
}

// Comment belongs to exactly one post and has no independent lifecycle:
// it is created within a post and removed with it.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User *UserRef `json:"user,omitempty"`
}

// Pagination describes one page of a post listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
