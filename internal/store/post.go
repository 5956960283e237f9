// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// postColumns is the joined select list shared by all post queries:
// post fields plus the denormalized author and category references.
const postColumns = `
	p.id, p.title, p.content, p.slug, p.excerpt, p.featured_image,
	p.author_id, p.category_id, p.tags, p.is_published, p.view_count,
	p.created_at, p.updated_at,
	u.id, u.username, u.email, u.avatar,
	c.id, c.name
`

const postJoins = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
`

// PostStore handles all post- and comment-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// ListFilter narrows a post listing. Zero values mean "no filter".
type ListFilter struct {
	Page       int
	Limit      int
	Search     string    // case-insensitive substring on title/content
	CategoryID uuid.UUID // exact category match
}

// List returns one page of posts newest-first together with the total
// row count for the filter.
func (s *PostStore) List(f ListFilter) ([]models.Post, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	var conds []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", n, n))
	}
	if f.CategoryID != uuid.Nil {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts p " + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	listArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		postColumns, postJoins, where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(query, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Search returns up to limit posts newest-first whose title, content, or
// any tag contains q case-insensitively.
func (s *PostStore) Search(q string, limit int) ([]models.Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+postJoins+`
		WHERE p.title ILIKE $1
		   OR p.content ILIKE $1
		   OR EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(p.tags) AS tag
			WHERE tag ILIKE $1
		   )
		ORDER BY p.created_at DESC
		LIMIT $2
	`, "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

// FindByID retrieves a post by its UUID with author and category
// resolved. Returns nil if not found. Comments are loaded separately.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+postJoins+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// SlugExists reports whether another post already owns the given slug.
// The exclude ID skips the post being updated (uuid.Nil on create).
func (s *PostStore) SlugExists(slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// IncrementViews bumps the view counter by exactly one. The UPDATE is
// atomic at the row level; concurrent readers may interleave but no
// increment is lost.
func (s *PostStore) IncrementViews(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		UPDATE posts SET view_count = view_count + 1 WHERE id = $1
		RETURNING view_count
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return count, nil
}

// Create inserts a new post and returns it with author and category
// resolved. A slug taken by a concurrent writer surfaces as a
// unique-constraint error (see IsDuplicate).
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := tagsJSON(p.Tags)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO posts (title, content, slug, excerpt, featured_image,
		                   author_id, category_id, tags, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.Title, p.Content, p.Slug, p.Excerpt, p.FeaturedImage,
		p.AuthorID, p.CategoryID, tags, p.IsPublished,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return s.FindByID(id)
}

// Update rewrites the mutable fields of an existing post. Slug and
// author are deliberately not part of the statement: the slug is fixed
// at creation and ownership cannot be transferred.
func (s *PostStore) Update(p *models.Post) error {
	tags, err := tagsJSON(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, featured_image = $4,
			category_id = $5, tags = $6, is_published = $7,
			updated_at = NOW()
		WHERE id = $8
	`, p.Title, p.Content, p.Excerpt, p.FeaturedImage,
		p.CategoryID, tags, p.IsPublished, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it via cascade.
func (s *PostStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// ListComments returns a post's comments oldest-first with their
// authors resolved.
func (s *PostStore) ListComments(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at,
		       u.id, u.username, u.avatar
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var cm models.Comment
		var u models.UserRef
		if err := rows.Scan(
			&cm.ID, &cm.PostID, &cm.UserID, &cm.Content, &cm.CreatedAt,
			&u.ID, &u.Username, &u.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		cm.User = &u
		items = append(items, cm)
	}
	return items, rows.Err()
}

// AddComment appends a comment to a post.
func (s *PostStore) AddComment(postID, userID uuid.UUID, content string) (*models.Comment, error) {
	cm := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, post_id, user_id, content, created_at
	`, postID, userID, content).Scan(
		&cm.ID, &cm.PostID, &cm.UserID, &cm.Content, &cm.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return cm, nil
}

// FindComment retrieves a single comment by ID. Returns nil if not found.
func (s *PostStore) FindComment(id uuid.UUID) (*models.Comment, error) {
	cm := &models.Comment{}
	err := s.db.QueryRow(`
		SELECT id, post_id, user_id, content, created_at
		FROM comments WHERE id = $1
	`, id).Scan(&cm.ID, &cm.PostID, &cm.UserID, &cm.Content, &cm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return cm, nil
}

// DeleteComment removes a single comment from its post's list.
func (s *PostStore) DeleteComment(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// tagsJSON encodes a tag list for the jsonb column. Nil becomes [].
func tagsJSON(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared post scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	var author models.UserRef
	var category models.CategoryRef
	var tags []byte

	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Excerpt, &p.FeaturedImage,
		&p.AuthorID, &p.CategoryID, &tags, &p.IsPublished, &p.ViewCount,
		&p.CreatedAt, &p.UpdatedAt,
		&author.ID, &author.Username, &author.Email, &author.Avatar,
		&category.ID, &category.Name,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	p.Author = &author
	p.Category = &category
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
