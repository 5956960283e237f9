// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a Go client for the Inkwell API. It pairs plain
// request methods with a Session type that keeps an optimistic local
// view of the post list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client talks to an Inkwell server.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// SetToken sets the bearer token sent with authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, if any.
func (c *Client) Token() string { return c.token }

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// ListOptions filters and paginates the post listing.
type ListOptions struct {
	Page     int
	Limit    int
	Search   string
	Category uuid.UUID
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// ListPosts fetches a page of posts.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*PostPage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Category != uuid.Nil {
		q.Set("category", opts.Category.String())
	}

	target := "/api/posts"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var out PostPage
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPosts fetches posts matching the query in title, content, or tags.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	var out []models.Post
	target := "/api/posts/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, target, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost fetches a single post with author, category, and comments.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var out models.Post
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostInput carries the writable post fields. A nil Image leaves the
// current (or default) featured image in place.
type PostInput struct {
	Title    string
	Content  string
	Excerpt  string
	Category uuid.UUID
	Tags     []string
	Image    *Upload
}

// Upload is an image attachment for a post.
type Upload struct {
	Filename string
	Body     io.Reader
}

// CreatePost creates a post as the authenticated user.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	var out models.Post
	if err := c.doForm(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePost applies a partial update to a post the caller owns.
func (c *Client) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	var out models.Post
	if err := c.doForm(ctx, http.MethodPut, "/api/posts/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost removes a post the caller owns.
func (c *Client) DeletePost(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/posts/"+id.String(), nil, nil)
}

// AddComment appends a comment and returns the post's full comment list.
func (c *Client) AddComment(ctx context.Context, postID uuid.UUID, content string) ([]models.Comment, error) {
	var out []models.Comment
	target := "/api/posts/" + postID.String() + "/comments"
	err := c.doJSON(ctx, http.MethodPost, target, map[string]string{"content": content}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes a comment the caller owns.
func (c *Client) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/comments/"+id.String(), nil, nil)
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	var out models.Category
	err := c.doJSON(ctx, http.MethodPost, "/api/categories", map[string]string{
		"name":        name,
		"description": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON sends an optional JSON body and decodes a JSON response.
func (c *Client) doJSON(ctx context.Context, method, target string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doForm sends a post input as a multipart form.
func (c *Client) doForm(ctx context.Context, method, target string, in PostInput, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}
	if in.Excerpt != "" {
		fields["excerpt"] = in.Excerpt
	}
	if in.Category != uuid.Nil {
		fields["category"] = in.Category.String()
	}
	if len(in.Tags) > 0 {
		fields["tags"] = strings.Join(in.Tags, ",")
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	if in.Image != nil {
		part, err := mw.CreateFormFile("featuredImage", in.Image.Filename)
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		if _, err := io.Copy(part, in.Image.Body); err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

// send executes the request, mapping non-2xx responses to APIError.
func (c *Client) send(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
