// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	searchLimit     = 20
)

// Posts groups the post and comment handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	files      storage.Store
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, files storage.Store) *Posts {
	return &Posts{posts: posts, categories: categories, files: files}
}

// listResponse is returned by the paginated post listing.
type listResponse struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// List returns posts newest-first with pagination metadata. Supports
// ?page, ?limit, ?search (title/content) and ?category filters.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := store.ListFilter{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(q.Get("search")),
	}
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("Category must be a valid id"))
			return
		}
		filter.CategoryID = id
	}

	posts, total, err := h.posts.List(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, listResponse{
		Posts:      posts,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// Search returns up to 20 posts matching the query in title, content,
// or tags.
func (h *Posts) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, apperr.Validation("Search query is required"))
		return
	}

	posts, err := h.posts.Search(q, searchLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, posts)
}

// Get returns a single post with its author, category, and comments
// resolved. Each fetch counts as one view.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, errNotFound("Post"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, errNotFound("Post"))
		return
	}

	views, err := h.posts.IncrementViews(id)
	if err != nil {
		respondError(w, err)
		return
	}
	post.ViewCount = views

	comments, err := h.posts.ListComments(id)
	if err != nil {
		respondError(w, err)
		return
	}
	post.Comments = comments

	respondJSON(w, http.StatusOK, post)
}

// Create makes a new post from a multipart form. The slug is derived
// from the title and made unique; an optional featuredImage upload
// replaces the default image.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	input, err := parsePostForm(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := input.Validate(); err != nil {
		respondError(w, err)
		return
	}

	categoryID, _ := uuid.Parse(input.Category)
	category, err := h.categories.FindByID(categoryID)
	if err != nil {
		respondError(w, err)
		return
	}
	if category == nil {
		respondError(w, apperr.Validation("Category does not exist"))
		return
	}

	postSlug, err := slug.Unique(h.posts.SlugExists, input.Title, uuid.Nil)
	if err != nil {
		respondError(w, err)
		return
	}

	featured := models.DefaultFeaturedImage
	if filename, err := h.saveUpload(r); err != nil {
		respondError(w, err)
		return
	} else if filename != "" {
		featured = filename
	}

	// New posts start unpublished; publishing is a later edit.
	post := &models.Post{
		Title:         input.Title,
		Content:       input.Content,
		Slug:          postSlug,
		FeaturedImage: featured,
		AuthorID:      identity.UserID,
		CategoryID:    categoryID,
		Tags:          input.Tags,
	}
	if input.Excerpt != "" {
		post.Excerpt = &input.Excerpt
	}

	created, err := h.posts.Create(post)
	if err != nil {
		// The unique index is the final arbiter when two writers race
		// for the same slug.
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// Update applies partial changes to a post. Only the author or an admin
// may update; the slug and author never change.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, errNotFound("Post"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, errNotFound("Post"))
		return
	}
	if post.AuthorID != identity.UserID && !identity.IsAdmin() {
		respondError(w, apperr.Authorization("Not authorized to update this post"))
		return
	}

	if err := parseForm(r); err != nil {
		respondError(w, err)
		return
	}

	// Partial update: absent fields keep their current values.
	if v := strings.TrimSpace(r.FormValue("title")); v != "" {
		post.Title = v
	}
	if v := r.FormValue("content"); v != "" {
		post.Content = v
	}
	if v := strings.TrimSpace(r.FormValue("excerpt")); v != "" {
		post.Excerpt = &v
	}
	if tags := normalizeTags(r.Form["tags"]); len(tags) > 0 {
		post.Tags = tags
	}
	if v := r.FormValue("isPublished"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, apperr.Validation("isPublished must be true or false"))
			return
		}
		post.IsPublished = published
	}
	if raw := r.FormValue("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("Category must be a valid id"))
			return
		}
		category, err := h.categories.FindByID(categoryID)
		if err != nil {
			respondError(w, err)
			return
		}
		if category == nil {
			respondError(w, apperr.Validation("Category does not exist"))
			return
		}
		post.CategoryID = categoryID
	}

	input := postInput{
		Title:    post.Title,
		Content:  post.Content,
		Category: post.CategoryID.String(),
	}
	if post.Excerpt != nil {
		input.Excerpt = *post.Excerpt
	}
	if err := input.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if filename, err := h.saveUpload(r); err != nil {
		respondError(w, err)
		return
	} else if filename != "" {
		h.removeImage(r, post.FeaturedImage)
		post.FeaturedImage = filename
	}

	if err := h.posts.Update(post); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a post and its comments. Only the author or an admin
// may delete.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, errNotFound("Post"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, errNotFound("Post"))
		return
	}
	if post.AuthorID != identity.UserID && !identity.IsAdmin() {
		respondError(w, apperr.Authorization("Not authorized to delete this post"))
		return
	}

	if err := h.posts.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	h.removeImage(r, post.FeaturedImage)

	respondJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// AddComment appends a comment to a post and returns the full resolved
// comment list.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	postID, err := pathID(r, "id")
	if err != nil {
		respondError(w, errNotFound("Post"))
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	post, err := h.posts.FindByID(postID)
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, errNotFound("Post"))
		return
	}

	if _, err := h.posts.AddComment(postID, identity.UserID, req.Content); err != nil {
		respondError(w, err)
		return
	}

	comments, err := h.posts.ListComments(postID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comments)
}

// DeleteComment removes a comment. Only its author or an admin may
// delete.
func (h *Posts) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, errNotFound("Comment"))
		return
	}

	comment, err := h.posts.FindComment(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if comment == nil {
		respondError(w, errNotFound("Comment"))
		return
	}
	if comment.UserID != identity.UserID && !identity.IsAdmin() {
		respondError(w, apperr.Authorization("Not authorized to delete this comment"))
		return
	}

	if err := h.posts.DeleteComment(id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// pathID parses a uuid path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// parseForm handles both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
			return apperr.Wrap(apperr.KindValidation, "Invalid form data", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid form data", err)
	}
	return nil
}

// parsePostForm extracts the writable post fields from the request.
func parsePostForm(r *http.Request) (postInput, error) {
	if err := parseForm(r); err != nil {
		return postInput{}, err
	}
	return postInput{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Content:  r.FormValue("content"),
		Excerpt:  strings.TrimSpace(r.FormValue("excerpt")),
		Category: r.FormValue("category"),
		Tags:     normalizeTags(r.Form["tags"]),
	}, nil
}

// saveUpload stores the optional featuredImage upload and returns the
// generated filename, or "" when no file was sent.
func (h *Posts) saveUpload(r *http.Request) (string, error) {
	file, header, err := r.FormFile("featuredImage")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "Invalid image upload", err)
	}
	defer file.Close()

	if err := checkUpload(header); err != nil {
		return "", err
	}

	filename := storage.NewFilename(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if err := h.files.Save(r.Context(), filename, contentType, file, header.Size); err != nil {
		return "", err
	}
	return filename, nil
}

func checkUpload(header *multipart.FileHeader) error {
	if header.Size > storage.MaxUploadSize {
		return apperr.Validation("Image must be 5MB or smaller")
	}
	if !storage.AllowedExtension(header.Filename) {
		return apperr.Validation("Only jpeg, jpg, png, and gif images are allowed")
	}
	return nil
}

// removeImage deletes a stored image unless it is the shared default.
// Removal failures are not fatal to the request.
func (h *Posts) removeImage(r *http.Request, filename string) {
	if filename == "" || filename == models.DefaultFeaturedImage {
		return
	}
	_ = h.files.Remove(r.Context(), filename)
}
