// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// DefaultCategories is the fixed set inserted when the category
// collection is found empty, and by the manual reseed endpoint.
var DefaultCategories = []models.Category{
	{Name: "Technology", Description: "Posts about technology, programming, and software development"},
	{Name: "Web Development", Description: "Frontend and backend web development topics"},
	{Name: "Programming", Description: "General programming concepts and tutorials"},
	{Name: "JavaScript", Description: "JavaScript programming language and frameworks"},
	{Name: "React", Description: "React.js library and ecosystem"},
	{Name: "Node.js", Description: "Node.js runtime and server-side development"},
	{Name: "Database", Description: "Database design, management, and optimization"},
	{Name: "DevOps", Description: "Development operations, deployment, and infrastructure"},
	{Name: "AI & Machine Learning", Description: "Artificial intelligence and machine learning topics"},
	{Name: "Design", Description: "UI/UX design, graphics, and user experience"},
	{Name: "Career", Description: "Career advice, job searching, and professional development"},
	{Name: "Tutorials", Description: "Step-by-step tutorials and how-to guides"},
}

// CategoryStore handles all category-related database operations.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new CategoryStore with the given database connection.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by its UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(`
		SELECT id, name, description, created_at, updated_at
		FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category. A duplicate name surfaces as a
// unique-constraint error (see IsDuplicate).
func (s *CategoryStore) Create(name, description string) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(`
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at
	`, name, description).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Count returns the number of categories.
func (s *CategoryStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// InsertDefaults inserts the fixed default set and returns the created
// rows. Existing names are left untouched.
func (s *CategoryStore) InsertDefaults() ([]models.Category, error) {
	var items []models.Category
	for _, d := range DefaultCategories {
		c := models.Category{}
		err := s.db.QueryRow(`
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, description, created_at, updated_at
		`, d.Name, d.Description).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
		if err == sql.ErrNoRows {
			continue // name already present
		}
		if err != nil {
			return nil, fmt.Errorf("insert default category %q: %w", d.Name, err)
		}
		items = append(items, c)
	}
	return items, nil
}

// DeleteAll removes every category. Used by the admin reseed endpoint;
// fails while posts still reference a category.
func (s *CategoryStore) DeleteAll() error {
	if _, err := s.db.Exec(`DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}
