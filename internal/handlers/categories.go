// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
)

// Categories groups the category handlers.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories ordered by name. An empty table is seeded
// with the default set first, so a fresh install always has categories
// to file posts under.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	count, err := h.categories.Count()
	if err != nil {
		respondError(w, err)
		return
	}
	if count == 0 {
		if _, err := h.categories.InsertDefaults(); err != nil {
			respondError(w, err)
			return
		}
	}

	categories, err := h.categories.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Create adds a new category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.categories.Create(req.Name, req.Description)
	if err != nil {
		if store.IsDuplicate(err) {
			respondError(w, apperr.Conflict("Category already exists"))
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// Seed wipes the category table and reinserts the default set. Admin only.
func (h *Categories) Seed(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())
	if !identity.IsAdmin() {
		respondError(w, apperr.Authorization("Admin access required"))
		return
	}

	if err := h.categories.DeleteAll(); err != nil {
		respondError(w, err)
		return
	}
	categories, err := h.categories.InsertDefaults()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":    fmt.Sprintf("Successfully seeded %d categories", len(categories)),
		"categories": categories,
	})
}
